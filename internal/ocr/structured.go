package ocr

import "strings"

// ParseKeyValues sniffs "Key: Value" lines out of OCR text. Keys are
// lowercased and trimmed; later occurrences of a key win.
func ParseKeyValues(text string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		idx := strings.Index(line, ":")
		if idx <= 0 || idx == len(line)-1 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])
		if key == "" || value == "" {
			continue
		}
		// Long keys are almost always sentence fragments, not labels.
		if len(key) > 40 {
			continue
		}
		fields[key] = value
	}
	return fields
}
