package jwt

func getPayload(claims map[string]any) (map[string]any, bool) {
	if payload, ok := claims["payload"].(map[string]any); ok {
		return payload, true
	}
	return nil, false
}

func getString(payload map[string]any, key string) string {
	if val, ok := payload[key].(string); ok {
		return val
	}
	return ""
}

// GetTokenIDFromToken extracts JWT ID (jti) from token claims
func GetTokenIDFromToken(claims map[string]any) string {
	return getString(claims, "jti")
}

// GetUserIDFromToken extracts the user id from token claims
func GetUserIDFromToken(claims map[string]any) string {
	if payload, ok := getPayload(claims); ok {
		return getString(payload, PayloadUserID)
	}
	return ""
}

// GetUserNameFromToken extracts the display name from token claims
func GetUserNameFromToken(claims map[string]any) string {
	if payload, ok := getPayload(claims); ok {
		return getString(payload, PayloadUserName)
	}
	return ""
}
