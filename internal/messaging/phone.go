package messaging

import "strings"

// NormalizeE164 ensures the value begins with + and only contains digits
// afterward.
func NormalizeE164(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	digits := sanitizePhone(value)
	if digits == "" {
		return ""
	}
	return "+" + digits
}

func sanitizePhone(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// WhatsAppAddress prefixes an E.164 number with the provider's whatsapp
// scheme, normalizing first.
func WhatsAppAddress(value string) string {
	value = strings.TrimPrefix(strings.TrimSpace(value), "whatsapp:")
	normalized := NormalizeE164(value)
	if normalized == "" {
		return ""
	}
	return "whatsapp:" + normalized
}
