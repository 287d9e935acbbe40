package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/maigreifinn/internal/board"
	"github.com/talgya/maigreifinn/internal/ledger"
)

func seat(t *testing.T, money ...int) (*ledger.Ledger, *board.Board) {
	t.Helper()
	l := ledger.New(ledger.FundPersonal)
	for i, m := range money {
		l.Join(ledger.Player{Name: string(rune('A' + i)), Money: m, Equipment: 100})
	}
	return l, board.Default()
}

func TestPurchase_BuysUnownedProperty(t *testing.T) {
	l, b := seat(t, 1500)
	gunnvor := b.At(4)

	require.NoError(t, l.Purchase(0, gunnvor))
	assert.Equal(t, 1320, l.Players[0].Money)
	require.NotNil(t, gunnvor.Owner)
	assert.Equal(t, board.PlayerID(0), *gunnvor.Owner)
	assert.Equal(t, []int{4}, l.Players[0].Owned)
}

func TestPurchase_RejectsWithoutMutation(t *testing.T) {
	l, b := seat(t, 100, 1500)

	err := l.Purchase(0, b.At(4))
	assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)
	assert.Equal(t, 100, l.Players[0].Money)
	assert.Nil(t, b.At(4).Owner)
	assert.Empty(t, l.Players[0].Owned)

	assert.ErrorIs(t, l.Purchase(1, b.At(0)), ledger.ErrNotForSale)
	require.NoError(t, l.Purchase(1, b.At(4)))
	assert.ErrorIs(t, l.Purchase(1, b.At(4)), ledger.ErrNotForSale)
	assert.ErrorIs(t, l.Purchase(7, b.At(1)), ledger.ErrUnknownPlayer)

	l.Players[1].Bankrupt = true
	assert.ErrorIs(t, l.Purchase(1, b.At(1)), ledger.ErrBankrupt)
}

func TestSettleRent_Transfers(t *testing.T) {
	l, _ := seat(t, 500, 500)
	res, err := l.SettleRent(0, 1, 36)
	require.NoError(t, err)
	assert.True(t, res.Paid)
	assert.False(t, res.Bankrupt)
	assert.Equal(t, 464, l.Players[0].Money)
	assert.Equal(t, 536, l.Players[1].Money)
}

func TestSettleRent_InsolventPayerVoidsDebt(t *testing.T) {
	l, _ := seat(t, 30, 500)
	res, err := l.SettleRent(0, 1, 50)
	require.NoError(t, err)
	assert.False(t, res.Paid)
	assert.True(t, res.Bankrupt)
	assert.Zero(t, l.Players[0].Money)
	assert.True(t, l.Players[0].Bankrupt)
	assert.Equal(t, 500, l.Players[1].Money, "owner receives nothing")
	assert.Equal(t, 1, l.Solvent())
}

func TestAdjust_ClampsAtZero(t *testing.T) {
	l, _ := seat(t, 40)
	assert.Equal(t, -40, l.Adjust(0, -100))
	assert.Zero(t, l.Players[0].Money)
	assert.False(t, l.Players[0].Bankrupt)
	assert.Equal(t, 25, l.Adjust(0, 25))
	assert.Zero(t, l.Adjust(9, 25))
}

func TestSpend_AllOrNothing(t *testing.T) {
	l, _ := seat(t, 40)
	assert.ErrorIs(t, l.Spend(0, 50), ledger.ErrInsufficientFunds)
	assert.Equal(t, 40, l.Players[0].Money)
	require.NoError(t, l.Spend(0, 40))
	assert.Zero(t, l.Players[0].Money)
}

func TestCompanyMode_DrawsFromPool(t *testing.T) {
	l := ledger.New(ledger.FundCompany)
	l.AddCompany("hb", "HB Grandi", 1000)
	a := l.Join(ledger.Player{Name: "A", Money: 5, CompanyID: "hb"})
	bb := l.Join(ledger.Player{Name: "B", Money: 5, CompanyID: "hb"})
	solo := l.Join(ledger.Player{Name: "C", Money: 300})
	b := board.Default()

	require.NoError(t, l.Purchase(a.ID, b.At(4)))
	assert.Equal(t, 820, l.Companies["hb"].Balance)
	assert.Equal(t, 5, a.Money)
	assert.Equal(t, 820, l.Balance(bb.ID), "members share the pool")

	_, err := l.SettleRent(solo.ID, a.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, 920, l.Companies["hb"].Balance)
	assert.Equal(t, 200, solo.Money)
	require.NoError(t, l.Validate(b))
}

func TestRelease_ClearsOwnership(t *testing.T) {
	l, b := seat(t, 1500)
	require.NoError(t, l.Purchase(0, b.At(1)))
	require.NoError(t, l.Purchase(0, b.At(3)))

	assert.ElementsMatch(t, []int{1, 3}, l.Release(0, b))
	assert.Nil(t, b.At(1).Owner)
	assert.Nil(t, b.At(3).Owner)
	assert.Empty(t, l.Players[0].Owned)
}

func TestNetWorthAndStandings(t *testing.T) {
	l, b := seat(t, 1500, 1000, 10)
	require.NoError(t, l.Purchase(0, b.At(4))) // 180
	l.Players[0].UpgradeSpend = 20
	l.Players[2].Bankrupt = true

	assert.Equal(t, 1320+140, l.NetWorth(0, b))
	assert.Equal(t, 1, l.CountOwned(0, b, board.CategoryBoat))

	rows := l.Standings(b)
	require.Len(t, rows, 3)
	assert.Equal(t, "A", rows[0].Name)
	assert.Equal(t, "B", rows[1].Name)
	assert.True(t, rows[2].Bankrupt)
}

func TestClone_IsDeep(t *testing.T) {
	l, b := seat(t, 1500)
	require.NoError(t, l.Purchase(0, b.At(1)))
	c := l.Clone()
	c.Players[0].Money = 0
	c.Players[0].Owned[0] = 99
	assert.Equal(t, 1400, l.Players[0].Money)
	assert.Equal(t, []int{1}, l.Players[0].Owned)
}

func TestValidate_CatchesDisagreement(t *testing.T) {
	l, b := seat(t, 1500)
	require.NoError(t, l.Validate(b))
	l.Players[0].Owned = []int{1}
	assert.Error(t, l.Validate(b))
}

func TestClampHelpers(t *testing.T) {
	p := &ledger.Player{Hunger: 9, Equipment: 90}
	assert.Equal(t, 10, ledger.ClampHunger(p, 3, 10))
	assert.Equal(t, 0, ledger.ClampHunger(p, -20, 10))
	assert.Equal(t, 100, ledger.ClampEquipment(p, 40, 100))
}
