package distribution

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScheduled(t *testing.T) *Distribution {
	t.Helper()
	d, err := NewDistribution(uuid.New(), "DST-20260211-001", uuid.New(), nil, time.Date(2026, 2, 11, 6, 0, 0, 0, time.UTC), 320)
	require.NoError(t, err)
	return d
}

func TestNewDistribution(t *testing.T) {
	d := newScheduled(t)
	assert.Equal(t, StatusScheduled, d.Status)
	assert.True(t, d.Status.IsActive())

	_, err := NewDistribution(uuid.New(), "", uuid.New(), nil, time.Now(), 1)
	assert.Error(t, err)
	_, err = NewDistribution(uuid.New(), "D1", uuid.Nil, nil, time.Now(), 1)
	assert.Error(t, err)
	_, err = NewDistribution(uuid.New(), "D1", uuid.New(), nil, time.Time{}, 1)
	assert.Error(t, err)
	_, err = NewDistribution(uuid.New(), "D1", uuid.New(), nil, time.Now(), 0)
	assert.Error(t, err)
}

func TestDistribution_DeliveryFlow(t *testing.T) {
	d := newScheduled(t)

	assert.Error(t, d.Depart("Pak Udin", "D 1234 AB", time.Now()), "must prepare first")
	require.NoError(t, d.Prepare())
	assert.Error(t, d.Depart(" ", "D 1234 AB", time.Now()))
	require.NoError(t, d.Depart("Pak Udin", "d 1234 ab", time.Now()))
	assert.Equal(t, "D 1234 AB", d.VehiclePlate)
	assert.Equal(t, StatusInTransit, d.Status)

	assert.Error(t, d.Deliver("", "", time.Now()), "recipient required")
	require.NoError(t, d.Deliver("Bu Kepala Sekolah", "diterima lengkap", time.Now()))
	assert.Equal(t, StatusDelivered, d.Status)
	assert.NotNil(t, d.DeliveredAt)
	assert.False(t, d.Status.IsActive())

	events := d.GetDomainEvents()
	require.Len(t, events, 3)
	last := events[2].(*DistributionStatusChangedEvent)
	assert.Equal(t, StatusInTransit, last.FromStatus)
	assert.Equal(t, StatusDelivered, last.Status)
	assert.Equal(t, "Bu Kepala Sekolah", last.RecipientName)
	assert.Equal(t, 320, last.Portions)
}

func TestDistribution_Cancel(t *testing.T) {
	d := newScheduled(t)
	require.NoError(t, d.Prepare())

	assert.Error(t, d.Cancel("", time.Now()))
	require.NoError(t, d.Cancel("sekolah libur", time.Now()))
	assert.Equal(t, StatusCancelled, d.Status)
	assert.Error(t, d.Prepare())
	assert.Error(t, d.AttachProof("proofs/x.jpg"))

	delivered := newScheduled(t)
	require.NoError(t, delivered.Prepare())
	require.NoError(t, delivered.Depart("Pak Udin", "", time.Now()))
	require.NoError(t, delivered.Deliver("Guru piket", "", time.Now()))
	assert.Error(t, delivered.Cancel("salah kirim", time.Now()))
}

func TestDistribution_AttachProof(t *testing.T) {
	d := newScheduled(t)

	assert.Error(t, d.AttachProof(""))
	require.NoError(t, d.AttachProof("tenant/distributions/abc/proof.jpg"))
	assert.Equal(t, "tenant/distributions/abc/proof.jpg", d.ProofPhotoKey)
}

func TestNewSchool(t *testing.T) {
	tenantID := uuid.New()

	s, err := NewSchool(tenantID, "20219876", "SDN 1 Cimahi", LevelSD, 420)
	require.NoError(t, err)
	assert.True(t, s.IsActive)

	tests := []struct {
		name  string
		npsn  string
		level SchoolLevel
		count int
	}{
		{"short npsn", "2021987", LevelSD, 10},
		{"letters in npsn", "2021987A", LevelSD, 10},
		{"unknown level", "20219876", SchoolLevel("SMK"), 10},
		{"negative students", "20219876", LevelSMP, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSchool(tenantID, tt.npsn, "Sekolah", tt.level, tt.count)
			assert.Error(t, err)
		})
	}
}

func TestSchool_SetLocation(t *testing.T) {
	s, err := NewSchool(uuid.New(), "20219876", "SDN 1 Cimahi", LevelSD, 420)
	require.NoError(t, err)

	require.NoError(t, s.SetLocation(decimal.RequireFromString("-6.8722"), decimal.RequireFromString("107.5425")))
	assert.True(t, s.Latitude.Valid)
	assert.Error(t, s.SetLocation(decimal.NewFromInt(91), decimal.Zero))
	assert.Error(t, s.SetLocation(decimal.Zero, decimal.NewFromInt(181)))

	s.SetContact(" Bu Rina ", "0813")
	assert.Equal(t, "Bu Rina", s.ContactName)
}
