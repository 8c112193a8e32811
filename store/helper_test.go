package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"profile_service/domain"
)

func TestNormalizeDocument(t *testing.T) {
	raw := primitive.D{
		{Key: "physical", Value: primitive.A{
			primitive.D{{Key: "label", Value: "Wheelchair access"}, {Key: "priority", Value: "must"}, {Key: "private", Value: true}},
		}},
		{Key: "remote", Value: primitive.A{
			primitive.M{"label": "Home office stipend", "priority": "nice", "private": false},
		}},
	}

	normalized := normalizeDocument(raw)
	assert.Equal(t, map[string]interface{}{
		"physical": []interface{}{
			map[string]interface{}{"label": "Wheelchair access", "priority": "must", "private": true},
		},
		"remote": []interface{}{
			map[string]interface{}{"label": "Home office stipend", "priority": "nice", "private": false},
		},
	}, normalized)

	set, report := domain.DecodeSelectionSet(normalized)
	assert.True(t, report.Clean())
	expected := domain.NewSelectionSet()
	expected[domain.Physical] = []domain.Selection{{Label: "Wheelchair access", Priority: domain.Must, Private: true}}
	expected[domain.Remote] = []domain.Selection{{Label: "Home office stipend", Priority: domain.Nice}}
	assert.Equal(t, expected, set)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "profile:abc", constructProfileKey("abc"))
	assert.Equal(t, "revoked:jti-1", constructRevokedKey("jti-1"))
}
