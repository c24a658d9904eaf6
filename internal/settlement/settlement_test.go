package settlement

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Farouk-MY/PFE-sub001/models"
)

func TestComputeTotalShipping(t *testing.T) {
	tests := []struct {
		name     string
		cart     models.CartSnapshot
		delivery models.DeliveryChoice
		expected float64
	}{
		{
			name:     "home delivery above threshold ships free",
			cart:     models.CartSnapshot{{ProductID: "p1", UnitPrice: 150, Quantity: 1}},
			delivery: models.DeliveryHome,
			expected: 0,
		},
		{
			name:     "home delivery below threshold pays the fee",
			cart:     models.CartSnapshot{{ProductID: "p1", UnitPrice: 80, Quantity: 1}},
			delivery: models.DeliveryHome,
			expected: 5.99,
		},
		{
			name:     "pickup is always free",
			cart:     models.CartSnapshot{{ProductID: "p1", UnitPrice: 20, Quantity: 1}},
			delivery: models.DeliveryPickup,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals, err := ComputeTotal(tt.cart, tt.delivery, 0)

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, totals.ShippingFee)
		})
	}
}

func TestComputeTotalSubtotalAndPoints(t *testing.T) {
	cart := models.CartSnapshot{
		{ProductID: "p1", UnitPrice: 10.5, Quantity: 2, PointsPerUnit: 100},
		{ProductID: "p2", UnitPrice: 4, Quantity: 3, PointsPerUnit: 50},
	}

	totals, err := ComputeTotal(cart, models.DeliveryPickup, 0)

	assert.NoError(t, err)
	assert.Equal(t, 33.0, totals.Subtotal)
	assert.Equal(t, 33.0, totals.TotalPayable)
	assert.Equal(t, 350, totals.PointsEarned)
}

func TestComputeTotalPointsUnaffectedByDiscount(t *testing.T) {
	cart := models.CartSnapshot{
		{ProductID: "p1", UnitPrice: 100, Quantity: 2, PointsPerUnit: 40},
	}

	discounted, err := ComputeTotal(cart, models.DeliveryPickup, 40)
	assert.NoError(t, err)

	full, err := ComputeTotal(cart, models.DeliveryPickup, 0)
	assert.NoError(t, err)

	assert.Equal(t, full.PointsEarned, discounted.PointsEarned)
	assert.Equal(t, 160.0, discounted.TotalPayable)
}

func TestComputeTotalInvalid(t *testing.T) {
	cart := models.CartSnapshot{
		{ProductID: "p1", UnitPrice: 10, Quantity: 1},
	}

	t.Run("discount larger than the order", func(t *testing.T) {
		_, err := ComputeTotal(cart, models.DeliveryPickup, 50)

		assert.True(t, errors.Is(err, ErrInvalidTotal))
	})

	t.Run("non-finite price", func(t *testing.T) {
		broken := models.CartSnapshot{
			{ProductID: "p1", UnitPrice: math.NaN(), Quantity: 1},
		}

		_, err := ComputeTotal(broken, models.DeliveryPickup, 0)

		assert.True(t, errors.Is(err, ErrInvalidTotal))
	})
}

func TestComputeTotalEmptyCartIsZero(t *testing.T) {
	totals, err := ComputeTotal(models.CartSnapshot{}, models.DeliveryPickup, 0)

	assert.NoError(t, err)
	assert.Equal(t, 0.0, totals.TotalPayable)
	assert.Equal(t, 0, totals.PointsEarned)
}
