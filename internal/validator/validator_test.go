package validator

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type sample struct {
	Type      string `binding:"required,transaction_type"`
	Authority string `binding:"required,authority"`
}

func TestRegister(t *testing.T) {
	Register()
	if _, ok := binding.Validator.Engine().(*validator.Validate); !ok {
		t.Fatal("expected go-playground validator engine")
	}

	tests := []struct {
		name    string
		in      sample
		wantErr bool
	}{
		{"income", sample{Type: "INCOME", Authority: "ROLE_ADMIN"}, false},
		{"expense", sample{Type: "EXPENSE", Authority: "ROLE_CLIENT"}, false},
		{"lowercase_type", sample{Type: "income", Authority: "ROLE_ADMIN"}, true},
		{"unknown_type", sample{Type: "TRANSFER", Authority: "ROLE_ADMIN"}, true},
		{"authority_without_prefix", sample{Type: "INCOME", Authority: "ADMIN"}, true},
		{"authority_lowercase", sample{Type: "INCOME", Authority: "role_admin"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(&tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRegister_ReportsJSONFieldNames(t *testing.T) {
	Register()

	type payload struct {
		NewPassword string `json:"newPassword" binding:"required"`
		Plain       string `binding:"required"`
	}

	err := binding.Validator.ValidateStruct(&payload{})
	var verrs validator.ValidationErrors
	if !assert.ErrorAs(t, err, &verrs) {
		return
	}
	fields := []string{verrs[0].Field(), verrs[1].Field()}
	assert.ElementsMatch(t, []string{"newPassword", "Plain"}, fields)
}
