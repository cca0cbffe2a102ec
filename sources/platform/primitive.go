package platform

func BoolPtr(b bool) *bool {
	return &b
}

func BoolValue(b *bool) bool {
	if b == nil {
		return false
	}
	return *b
}

func StringPtr(s string) *string {
	return &s
}
