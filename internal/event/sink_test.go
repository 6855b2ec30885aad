package event

import (
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/booster-finance/bes/internal/escrow"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRecorder 收集事件的内存存储，可注入保存失败
type memRecorder struct {
	mu     sync.Mutex
	saved  []escrow.Event
	failed bool
}

func (r *memRecorder) Save(ev escrow.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failed {
		return errors.New("save rejected")
	}
	r.saved = append(r.saved, ev)
	return nil
}

func (r *memRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saved)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestAsyncSinkRecords(t *testing.T) {
	recorder := &memRecorder{}
	sink, err := NewAsyncSink(2, recorder)
	require.NoError(t, err)
	defer sink.Close()

	actor := common.HexToAddress("0x1000000000000000000000000000000000000001")
	for i := 0; i < 10; i++ {
		sink.Record(escrow.Event{
			Type:   escrow.EventContribution,
			Actor:  actor,
			Amount: big.NewInt(int64(i)),
			Time:   time.Now(),
		})
	}

	waitFor(t, func() bool { return recorder.count() == 10 })
}

func TestAsyncSinkDefaultsPoolSize(t *testing.T) {
	sink, err := NewAsyncSink(0, &memRecorder{})
	require.NoError(t, err)
	defer sink.Close()

	sink.Record(escrow.Event{Type: escrow.EventVote, Time: time.Now()})
}

func TestAsyncSinkSurvivesSaveFailure(t *testing.T) {
	recorder := &memRecorder{failed: true}
	sink, err := NewAsyncSink(1, recorder)
	require.NoError(t, err)
	defer sink.Close()

	// 保存失败只记日志，不影响后续事件
	sink.Record(escrow.Event{Type: escrow.EventRefund, Time: time.Now()})

	recorder.mu.Lock()
	recorder.failed = false
	recorder.mu.Unlock()

	sink.Record(escrow.Event{Type: escrow.EventWithdrawal, Time: time.Now()})
	waitFor(t, func() bool { return recorder.count() == 1 })

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	assert.Equal(t, escrow.EventWithdrawal, recorder.saved[0].Type)
}
