package domain

// fieldAliasOrder lists the legacy structured-document keys of each
// canonical field, most preferred first. Earlier agent configurations
// shipped documents using these names.
var fieldAliasOrder = map[string][]string{
	FieldIPExternalClient:  {"ip_cliente_externo"},
	FieldIPInternalBackend: {"ip_red_interna", "ip_backend_interno"},
	FieldAuthenticatedUser: {"usuario_autenticado"},
	FieldIdentity:          {"identidad"},
	FieldTimestampOrigin:   {"timestamp_apache", "timestamp_rp"},
	FieldMethod:            {"metodo"},
	FieldResource:          {"recurso", "request"},
	FieldProtocol:          {"protocolo"},
	FieldResponseCode:      {"codigo_respuesta"},
	FieldResponseSize:      {"tamano_respuesta"},
	FieldResponseTimeMs:    {"tiempo_respuesta_ms"},
	FieldCacheAge:          {"edad_cache"},
	FieldReserved1:         {"campo_reservado_1", "jsession_id"},
	FieldReserved2:         {"campo_reservado_2"},
	FieldOriginEnvironment: {"ambiente_origen", "f5_virtualserver"},
	FieldPoolEnvironment:   {"ambiente_pool", "f5_pool"},
	FieldNodeEnvironment:   {"entorno_nodo", "f5_bigip_name"},
}

// FieldAliases maps legacy structured-document keys onto canonical names.
var FieldAliases = func() map[string]string {
	m := make(map[string]string)
	for canonical, aliases := range fieldAliasOrder {
		for _, alias := range aliases {
			m[alias] = canonical
		}
	}
	return m
}()

// FieldKeys returns the document keys that may carry a canonical field,
// in precedence order: the canonical name, then its aliases.
func FieldKeys(name string) []string {
	aliases := fieldAliasOrder[name]
	keys := make([]string, 0, 1+len(aliases))
	keys = append(keys, name)
	return append(keys, aliases...)
}

// CanonicalField resolves a document key to its canonical name.
// The second result is false for keys that are neither canonical nor aliases.
func CanonicalField(key string) (string, bool) {
	if canonical, ok := FieldAliases[key]; ok {
		return canonical, true
	}
	for _, name := range FieldNames {
		if name == key {
			return name, true
		}
	}
	return "", false
}
