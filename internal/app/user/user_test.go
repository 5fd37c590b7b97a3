package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfileValidate(t *testing.T) {
	valid := Profile{ID: 7, Fullname: "Ada Lovelace", Email: "ada@example.com"}
	assert.NoError(t, valid.Validate())

	for name, p := range map[string]Profile{
		"missing id":    {Fullname: "Ada", Email: "ada@example.com"},
		"blank name":    {ID: 7, Fullname: "  ", Email: "ada@example.com"},
		"invalid email": {ID: 7, Fullname: "Ada", Email: "ada"},
	} {
		assert.Error(t, p.Validate(), name)
	}
}

func TestRegistrationValidate(t *testing.T) {
	assert.NoError(t, Registration{Email: "ada@example.com", Password: "pw", Fullname: "Ada"}.Validate())
	assert.Error(t, Registration{Email: "ada@example.com", Fullname: "Ada"}.Validate())
	assert.Error(t, Registration{Email: "ada@example.com", Password: "pw"}.Validate())
	assert.Error(t, Registration{Email: "", Password: "pw", Fullname: "Ada"}.Validate())
}
