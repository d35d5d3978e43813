package knowledge

// tables holds every raw table NewBase compiles into a Base. defaultTables
// seeds it from the package's built-in data; an [Option] may replace any
// subset of it before the gazetteers are built.
type tables struct {
	knownDrugs            []string
	brandGeneric          map[string]string
	dangerousCombinations map[drugPair]string
	complaintKeywords     []KeywordEntry
	diagnosisKeywords     []KeywordEntry
	standardAdvice        []string
	adviceMapping         map[int][]string
}

func defaultTables() tables {
	return tables{
		knownDrugs:            append([]string(nil), knownDrugs...),
		brandGeneric:          copyStringMap(brandGeneric),
		dangerousCombinations: copyPairMap(dangerousCombinations),
		complaintKeywords:     append([]KeywordEntry(nil), complaintKeywords...),
		diagnosisKeywords:     append([]KeywordEntry(nil), diagnosisKeywords...),
		standardAdvice:        append([]string(nil), standardAdvice...),
		adviceMapping:         copyAdviceMap(adviceMapping),
	}
}

func copyStringMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyPairMap(m map[drugPair]string) map[drugPair]string {
	out := make(map[drugPair]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyAdviceMap(m map[int][]string) map[int][]string {
	out := make(map[int][]string, len(m))
	for k, v := range m {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Option configures [NewBase]'s table set before the gazetteers are built.
type Option func(*tables) error
