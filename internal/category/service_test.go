package category

import (
	"errors"
	"testing"

	"local_services_backend/internal/common"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll_FixedTaxonomy(t *testing.T) {
	all := All()
	require.Len(t, all, 14)
	assert.Equal(t, "home-services", all[0].ID)
	assert.Equal(t, "real-estate", all[len(all)-1].ID)

	seen := map[string]bool{}
	for _, c := range all {
		assert.NotEmpty(t, c.Name)
		assert.NotEmpty(t, c.Icon)
		assert.NotEmpty(t, c.Description)
		assert.Empty(t, c.SubServices, "%s carries sub-services", c.ID)
		assert.False(t, seen[c.ID], "duplicate id %s", c.ID)
		seen[c.ID] = true
	}

	all[0].Name = "mutated"
	assert.Equal(t, "Home Services", All()[0].Name)
}

func TestNameOf(t *testing.T) {
	assert.Equal(t, "Automobile", NameOf("automobile-services"))
	assert.Equal(t, "Home Services", NameOf("Home Services"))
	assert.Equal(t, "Home Services", NameOf(" HOME-SERVICES "))
	assert.Equal(t, "", NameOf("spaceships"))
	assert.Equal(t, "", NameOf(""))
}

func TestIsValidName(t *testing.T) {
	assert.True(t, IsValidName("Food & Catering"))
	assert.False(t, IsValidName("food-services"))
	assert.False(t, IsValidName(""))
}

func TestGet_NotFound(t *testing.T) {
	_, err := Get("nope")
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestRegisterValidation(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterValidation(v))

	type form struct {
		Category string `validate:"required,category"`
	}
	assert.NoError(t, v.Struct(form{Category: "Pet Services"}))
	assert.Error(t, v.Struct(form{Category: "pet-services"}))
}
