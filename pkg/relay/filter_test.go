package relay

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gatewaynetwork/bridge-relay/pkg/ledger"
)

func testFilter(store *MockStore) *Filter {
	faults := NewFaultHandler(store, 8, zap.NewNop())
	return NewFilter("3NGateway", "asset-1", store, faults, zap.NewNop())
}

func gatewayTx() *ledger.Transaction {
	return &ledger.Transaction{
		Type:       ledger.TransferTxType,
		ID:         "deposit-1",
		Sender:     "3NSender",
		Recipient:  "3NGateway",
		AssetID:    "asset-1",
		Amount:     150000000,
		Attachment: transparentAttachment,
	}
}

func TestFilter_Eligible(t *testing.T) {
	store := &MockStore{}
	filter := testFilter(store)

	eligible, err := filter.Eligible(context.Background(), gatewayTx())
	require.NoError(t, err)
	assert.True(t, eligible)
	assert.Empty(t, store.ErrorRecords)
}

func TestFilter_IgnoresNonDeposits(t *testing.T) {
	store := &MockStore{
		SettlementExistsFunc: func(ctx context.Context, sourceTxID string) (bool, error) {
			t.Fatal("store must not be queried for non-deposits")
			return false, nil
		},
	}
	filter := testFilter(store)

	cases := map[string]func(*ledger.Transaction){
		"wrong type":      func(tx *ledger.Transaction) { tx.Type = 11 },
		"wrong recipient": func(tx *ledger.Transaction) { tx.Recipient = "3NSomeoneElse" },
		"wrong asset":     func(tx *ledger.Transaction) { tx.AssetID = "asset-2" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			tx := gatewayTx()
			mutate(tx)

			eligible, err := filter.Eligible(context.Background(), tx)
			require.NoError(t, err)
			assert.False(t, eligible)
			assert.Empty(t, store.ErrorRecords)
		})
	}
}

func TestFilter_MissingAttachment(t *testing.T) {
	store := &MockStore{}
	filter := testFilter(store)

	tx := gatewayTx()
	tx.Attachment = ""

	eligible, err := filter.Eligible(context.Background(), tx)
	require.NoError(t, err)
	assert.False(t, eligible)

	require.Len(t, store.ErrorRecords, 1)
	record := store.ErrorRecords[0]
	assert.Equal(t, string(FaultNoAttachment), record.ErrorKind)
	assert.Equal(t, "deposit-1", record.SourceTxID)
	assert.Equal(t, "1.5", record.Amount)
	assert.Empty(t, record.TargetAddress)
}

func TestFilter_AlreadySettledIsSilent(t *testing.T) {
	store := &MockStore{
		SettlementExistsFunc: func(ctx context.Context, sourceTxID string) (bool, error) {
			return sourceTxID == "deposit-1", nil
		},
	}
	filter := testFilter(store)

	eligible, err := filter.Eligible(context.Background(), gatewayTx())
	require.NoError(t, err)
	assert.False(t, eligible)
	assert.Empty(t, store.ErrorRecords, "an already-settled deposit is not an error")
	assert.Empty(t, store.Settlements)
}
