package store

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	cacheProfile = "profile:%s"
	cacheRevoked = "revoked:%s"
)

func constructProfileKey(id string) string {
	return fmt.Sprintf(cacheProfile, id)
}

func constructRevokedKey(tokenID string) string {
	return fmt.Sprintf(cacheRevoked, tokenID)
}

// normalizeDocument rewrites driver document and array types into plain
// maps and slices so the domain decoder never sees driver types.
func normalizeDocument(value interface{}) interface{} {
	switch typed := value.(type) {
	case primitive.D:
		out := make(map[string]interface{}, len(typed))
		for _, element := range typed {
			out[element.Key] = normalizeDocument(element.Value)
		}
		return out
	case primitive.M:
		out := make(map[string]interface{}, len(typed))
		for key, element := range typed {
			out[key] = normalizeDocument(element)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(typed))
		for key, element := range typed {
			out[key] = normalizeDocument(element)
		}
		return out
	case primitive.A:
		out := make([]interface{}, len(typed))
		for i, element := range typed {
			out[i] = normalizeDocument(element)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(typed))
		for i, element := range typed {
			out[i] = normalizeDocument(element)
		}
		return out
	default:
		return value
	}
}
