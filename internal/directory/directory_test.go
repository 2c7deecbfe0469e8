package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medreps/internal/models"
)

func TestLookupRepresentative(t *testing.T) {
	d := Default()

	identity, ok := d.Lookup("REP_1")
	require.True(t, ok)
	assert.Equal(t, models.RoleRepresentative, identity.Role)
	assert.Equal(t, "Ahmed Nashaat", identity.Name)
	assert.Equal(t, []string{"Gerga", "Sohag City", "El Baliana", "El Manshaa", "Dar El Salam"}, identity.Areas)
}

func TestLookupManager(t *testing.T) {
	d := Default()

	identity, ok := d.Lookup("MANAGER@2026")
	require.True(t, ok)
	assert.Equal(t, models.RoleManager, identity.Role)
	assert.Equal(t, "Manager", identity.Name)
	assert.Empty(t, identity.Areas)
	assert.Empty(t, d.Areas("MANAGER@2026"))
}

func TestLookupUnknown(t *testing.T) {
	d := Default()

	_, ok := d.Lookup("REP_99")
	assert.False(t, ok)
	_, ok = d.Lookup("rep_1")
	assert.False(t, ok, "codes are case sensitive")
	assert.Equal(t, []string{}, d.Areas("REP_99"))
}

func TestRepresentativesOrderAndCopies(t *testing.T) {
	d := Default()

	reps := d.Representatives()
	require.Len(t, reps, 7)
	for i, rep := range reps {
		assert.Equal(t, "REP_"+string(rune('1'+i)), rep.Code)
	}

	reps[0].Areas[0] = "changed"
	reps[0].Name = "changed"
	again, _ := d.Representative("REP_1")
	assert.Equal(t, "Gerga", again.Areas[0])
	assert.Equal(t, "Ahmed Nashaat", again.Name)
}

func TestNewRejectsBadTables(t *testing.T) {
	_, err := New("", "Manager", nil)
	assert.Error(t, err)

	_, err = New("BOSS", "Manager", []Representative{{Code: "A"}, {Code: "A"}})
	assert.Error(t, err)

	_, err = New("BOSS", "Manager", []Representative{{Code: "BOSS"}})
	assert.Error(t, err)

	_, err = New("BOSS", "Manager", []Representative{{Code: " ", Name: "Nobody"}})
	assert.Error(t, err)

	d, err := New("BOSS", "", []Representative{{Code: "A", Name: "Alpha"}})
	require.NoError(t, err)
	identity, ok := d.Lookup("BOSS")
	require.True(t, ok)
	assert.Equal(t, DefaultManagerName, identity.Name)
}
