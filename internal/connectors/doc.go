// Package connectors provides implementations of the Connector interface
// for log sources. Each connector knows how to stream raw records from a
// specific source type (local files, stdin).
//
// Connectors are created through a ConnectorFactory at startup.
package connectors
