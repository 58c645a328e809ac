package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountCreationCost(t *testing.T) {
	price := Price{Base: MustFromString("2000.000000 VESTS"), Quote: MustFromString("1.000 STEEM")}
	creationFee := MustFromString("0.100 STEEM")

	t.Run("defaults", func(t *testing.T) {
		fee, delegation, err := AccountCreationCost(price, creationFee, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "0.100 STEEM", fee.String())
		assert.Equal(t, "29000.000002 VESTS", delegation.String())
	})

	t.Run("delegation given", func(t *testing.T) {
		given := MustFromString("10000.000000 VESTS")
		fee, delegation, err := AccountCreationCost(price, creationFee, nil, &given)
		require.NoError(t, err)
		assert.Equal(t, "2.000 STEEM", fee.String())
		assert.Equal(t, given, delegation)
	})

	t.Run("large delegation floors fee", func(t *testing.T) {
		given := MustFromString("40000.000000 VESTS")
		fee, _, err := AccountCreationCost(price, creationFee, nil, &given)
		require.NoError(t, err)
		assert.Equal(t, "0.100 STEEM", fee.String())
	})

	t.Run("fee given", func(t *testing.T) {
		given := MustFromString("3.000 STEEM")
		fee, delegation, err := AccountCreationCost(price, creationFee, &given, nil)
		require.NoError(t, err)
		assert.Equal(t, given, fee)
		assert.Equal(t, "0.000002 VESTS", delegation.String())
	})

	t.Run("large fee floors delegation", func(t *testing.T) {
		given := MustFromString("10.000 STEEM")
		_, delegation, err := AccountCreationCost(price, creationFee, &given, nil)
		require.NoError(t, err)
		assert.Equal(t, "0.000000 VESTS", delegation.String())
	})

	t.Run("both given", func(t *testing.T) {
		fee := MustFromString("1.000 STEEM")
		delegation := MustFromString("1.000000 VESTS")
		gotFee, gotDelegation, err := AccountCreationCost(price, creationFee, &fee, &delegation)
		require.NoError(t, err)
		assert.Equal(t, fee, gotFee)
		assert.Equal(t, delegation, gotDelegation)
	})
}
