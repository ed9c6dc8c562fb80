package driver_test

import (
	"testing"
	"time"

	"verimoto/internal/core/domain/model/driver"
	"verimoto/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDriver(t *testing.T) *driver.Driver {
	t.Helper()
	d, err := driver.NewDriver(kernel.NewUUID(), "Ana Torres", "+52 55 1234 5678")
	require.NoError(t, err)
	return d
}

func newDispatchableDriver(t *testing.T) *driver.Driver {
	t.Helper()
	d := newTestDriver(t)
	d.Verify()
	require.NoError(t, d.SetOnline(true))

	point, err := kernel.NewGeoPoint(-99.13, 19.43)
	require.NoError(t, err)
	require.NoError(t, d.ReportLocation(point, time.Now()))
	return d
}

func TestNewDriver(t *testing.T) {
	t.Run("starts offline, unverified, active", func(t *testing.T) {
		d := newTestDriver(t)

		assert.False(t, d.Online())
		assert.False(t, d.Available())
		assert.False(t, d.Verified())
		assert.True(t, d.Active())
		assert.Nil(t, d.Location())
		assert.Zero(t, d.RatingCount())
		assert.False(t, d.IsDispatchable())
	})

	t.Run("requires name", func(t *testing.T) {
		_, err := driver.NewDriver(kernel.NewUUID(), "", "")
		require.Error(t, err)
		assert.Equal(t, driver.ErrNameIsRequired, err)
	})

	t.Run("requires id", func(t *testing.T) {
		_, err := driver.NewDriver(kernel.UUID{}, "Ana Torres", "")
		require.Error(t, err)
	})
}

func TestDriver_SetOnline(t *testing.T) {
	t.Run("going online makes driver available", func(t *testing.T) {
		d := newTestDriver(t)

		require.NoError(t, d.SetOnline(true))

		assert.True(t, d.Online())
		assert.True(t, d.Available())
	})

	t.Run("going offline clears both flags", func(t *testing.T) {
		d := newTestDriver(t)
		require.NoError(t, d.SetOnline(true))

		require.NoError(t, d.SetOnline(false))

		assert.False(t, d.Online())
		assert.False(t, d.Available())
	})

	t.Run("cannot go offline while claimed", func(t *testing.T) {
		d := newTestDriver(t)
		require.NoError(t, d.SetOnline(true))
		require.NoError(t, d.Claim())

		err := d.SetOnline(false)

		require.ErrorIs(t, err, driver.ErrDriverOnActiveAppointment)
		assert.True(t, d.Online())
	})
}

func TestDriver_ClaimRelease(t *testing.T) {
	t.Run("claim flips availability exactly once", func(t *testing.T) {
		d := newTestDriver(t)
		require.NoError(t, d.SetOnline(true))

		require.NoError(t, d.Claim())
		assert.False(t, d.Available())
		assert.True(t, d.Online())

		require.ErrorIs(t, d.Claim(), driver.ErrDriverAlreadyClaimed)
	})

	t.Run("release restores availability", func(t *testing.T) {
		d := newTestDriver(t)
		require.NoError(t, d.SetOnline(true))
		require.NoError(t, d.Claim())

		d.Release()

		assert.True(t, d.Available())
	})

	t.Run("release is idempotent", func(t *testing.T) {
		d := newTestDriver(t)
		require.NoError(t, d.SetOnline(true))

		d.Release()
		d.Release()

		assert.True(t, d.Available())
	})

	t.Run("release of offline driver keeps it offline", func(t *testing.T) {
		d := newTestDriver(t)

		d.Release()

		assert.False(t, d.Online())
		assert.False(t, d.Available())
	})
}

func TestDriver_IsDispatchable(t *testing.T) {
	t.Run("requires all flags and a location", func(t *testing.T) {
		d := newDispatchableDriver(t)
		assert.True(t, d.IsDispatchable())
	})

	t.Run("claimed driver is not dispatchable", func(t *testing.T) {
		d := newDispatchableDriver(t)
		require.NoError(t, d.Claim())
		assert.False(t, d.IsDispatchable())
	})

	t.Run("deactivated driver is not dispatchable", func(t *testing.T) {
		d := newDispatchableDriver(t)
		d.Deactivate()
		assert.False(t, d.IsDispatchable())
	})

	t.Run("driver without location is not dispatchable", func(t *testing.T) {
		d := newTestDriver(t)
		d.Verify()
		require.NoError(t, d.SetOnline(true))
		assert.False(t, d.IsDispatchable())
	})
}

func TestDriver_AddRatingSample(t *testing.T) {
	t.Run("computes running average", func(t *testing.T) {
		d := newTestDriver(t)

		require.NoError(t, d.AddRatingSample(5))
		assert.InDelta(t, 5.0, d.Rating(), 1e-9)
		assert.Equal(t, 1, d.RatingCount())

		require.NoError(t, d.AddRatingSample(4))
		assert.InDelta(t, 4.5, d.Rating(), 1e-9)
		assert.Equal(t, 2, d.RatingCount())

		require.NoError(t, d.AddRatingSample(3))
		assert.InDelta(t, 4.0, d.Rating(), 1e-9)
		assert.Equal(t, 3, d.RatingCount())
	})

	t.Run("rejects out-of-range scores", func(t *testing.T) {
		d := newTestDriver(t)
		require.Error(t, d.AddRatingSample(0))
		require.Error(t, d.AddRatingSample(6))
		assert.Zero(t, d.RatingCount())
	})
}

func TestRestoreDriver(t *testing.T) {
	t.Run("round trip preserves state", func(t *testing.T) {
		d := newDispatchableDriver(t)
		require.NoError(t, d.AddRatingSample(4.5))

		restored, err := driver.RestoreDriver(
			d.ID(), d.Name(), d.Phone(),
			d.Online(), d.Available(), d.Verified(), d.Active(),
			d.Location(), d.LocationAt(), d.Rating(), d.RatingCount(),
		)

		require.NoError(t, err)
		assert.True(t, d.IsEqual(restored))
		assert.True(t, restored.IsDispatchable())
		assert.InDelta(t, 4.5, restored.Rating(), 1e-9)
	})

	t.Run("rejects available while offline", func(t *testing.T) {
		d := newTestDriver(t)

		_, err := driver.RestoreDriver(
			d.ID(), d.Name(), d.Phone(),
			false, true, true, true,
			nil, nil, 0, 0,
		)

		require.Error(t, err)
	})
}
