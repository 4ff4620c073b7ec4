package pages

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParsePriceLabel(t *testing.T) {
	tests := []struct {
		label    string
		expected float64
		wantErr  bool
	}{
		{label: "$29.99", expected: 29.99},
		{label: "$9.99", expected: 9.99},
		{label: "15.99", expected: 15.99},
		{label: "Total: $43.18", wantErr: true},
		{label: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			price, err := parsePriceLabel(tt.label)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, price)
		})
	}
}

func Test_ElementNotReadyError_Format(t *testing.T) {
	cause := fmt.Errorf("timeout 30000ms exceeded")
	err := &ElementNotReadyError{
		Selector: selLoginButton,
		Action:   "click",
		Timeout:  30 * time.Second,
		Err:      cause,
	}

	assert.Contains(t, err.Error(), selLoginButton)
	assert.Contains(t, err.Error(), "click")
	assert.True(t, errors.Is(err, cause))

	var notReady *ElementNotReadyError
	wrapped := fmt.Errorf("login failed: %w", err)
	assert.True(t, errors.As(wrapped, &notReady))
}

func Test_ItemSlugSelectors(t *testing.T) {
	// The add/remove controls derive their data-test attribute from
	// the product slug; a drifted slug breaks both directions.
	slugs := []string{ItemBackpack, ItemBikeLight, ItemBoltTShirt, ItemFleeceJacket, ItemOnesie}
	for _, slug := range slugs {
		assert.NotEmpty(t, slug)
		assert.NotContains(t, slug, " ")
	}
	assert.Equal(t, `[data-test="add-to-cart-sauce-labs-backpack"]`, fmt.Sprintf(`[data-test="add-to-cart-%s"]`, ItemBackpack))
	assert.Equal(t, `[data-test="remove-sauce-labs-onesie"]`, fmt.Sprintf(`[data-test="remove-%s"]`, ItemOnesie))
}
