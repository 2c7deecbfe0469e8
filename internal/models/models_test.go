package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalDoctors(t *testing.T) {
	schedule := WeekSchedule{
		Saturday: []VisitIntent{{DoctorName: "A"}, {DoctorName: "B"}},
		Monday:   []VisitIntent{{DoctorName: "C"}},
	}
	assert.Equal(t, 3, schedule.TotalDoctors())
	assert.Equal(t, 0, WeekSchedule{}.TotalDoctors())
}

func TestNormalizeFillsEmptySlots(t *testing.T) {
	schedule := WeekSchedule{Sunday: []VisitIntent{{DoctorName: "A"}}}.Normalize()

	for _, day := range schedule.Days() {
		assert.NotNil(t, day)
	}
	assert.NotNil(t, schedule.Sunday[0].Products)
	assert.Equal(t, 1, schedule.TotalDoctors())
}

func TestTierFor(t *testing.T) {
	cases := map[int]Tier{
		0:  TierLow,
		4:  TierLow,
		5:  TierAverage,
		9:  TierAverage,
		10: TierExcellent,
		42: TierExcellent,
	}
	for visits, want := range cases {
		assert.Equal(t, want, TierFor(visits), "visits=%d", visits)
	}
}

func TestInitialProducts(t *testing.T) {
	products := InitialProducts()
	assert.Len(t, products, 5)
	for _, key := range ProductKeys {
		assert.Equal(t, ProductStatusPending, products[key])
	}
	assert.True(t, IsProductKey("flexilax"))
	assert.False(t, IsProductKey("aspirin"))
	assert.True(t, ProductStatusRejected.Valid())
	assert.False(t, ProductStatus("paused").Valid())
}
