package ledger

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"acqflow/pkg/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func odcEntry() schema.CLINLedgerEntry {
	return schema.CLINLedgerEntry{
		ID:         "CLIN-0003",
		CLINNumber: "0003",
		ContractID: "CTR-47QTCA",
		Type:       schema.CLINODC,
		Ceiling:    800000,
		Obligated:  450000,
		Invoiced:   380000,
	}
}

func TestCheckFundingInsufficientReportsGap(t *testing.T) {
	l := New()
	l.Upsert(odcEntry())

	// obligated 450k minus invoiced 380k leaves 70k committed-but-unspent.
	check, err := l.CheckFunding("CLIN-0003", 95000)
	require.NoError(t, err)

	assert.Equal(t, schema.FundingInsufficient, check.Status)
	assert.InDelta(t, 70000, check.Available, 0.001)
	assert.InDelta(t, 25000, check.Gap, 0.001)
}

func TestCheckFundingSufficient(t *testing.T) {
	l := New()
	l.Upsert(odcEntry())

	check, err := l.CheckFunding("CLIN-0003", 70000)
	require.NoError(t, err)
	assert.Equal(t, schema.FundingSufficient, check.Status)
	assert.Zero(t, check.Gap)
}

func TestCheckFundingValidation(t *testing.T) {
	l := New()
	l.Upsert(odcEntry())

	_, err := l.CheckFunding("CLIN-0003", -1)
	var invalid *schema.InvalidValueError
	require.ErrorAs(t, err, &invalid)

	_, err = l.CheckFunding("CLIN-9999", 100)
	var notFound *schema.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestReserveHoldsPending(t *testing.T) {
	l := New()
	l.Upsert(odcEntry())

	check, err := l.Reserve("CLIN-0003", "REQ-a", 50000)
	require.NoError(t, err)
	require.Equal(t, schema.FundingSufficient, check.Status)

	// The hold shrinks availability for the next check.
	check, err = l.CheckFunding("CLIN-0003", 50000)
	require.NoError(t, err)
	assert.Equal(t, schema.FundingInsufficient, check.Status)
	assert.InDelta(t, 20000, check.Available, 0.001)
	assert.InDelta(t, 30000, check.Gap, 0.001)

	// An insufficient reserve holds nothing.
	check, err = l.Reserve("CLIN-0003", "REQ-b", 50000)
	require.NoError(t, err)
	assert.Equal(t, schema.FundingInsufficient, check.Status)

	l.Release("CLIN-0003", "REQ-a")
	entry, err := l.Get("CLIN-0003")
	require.NoError(t, err)
	assert.Zero(t, entry.Pending)
}

func TestPostExecution(t *testing.T) {
	l := New()
	l.Upsert(odcEntry())
	now := time.Now()

	_, err := l.Reserve("CLIN-0003", "REQ-a", 50000)
	require.NoError(t, err)

	token := NewToken()
	entry, err := l.PostExecution("CLIN-0003", "REQ-a", 50000, token, now)
	require.NoError(t, err)

	assert.InDelta(t, 500000, entry.Obligated, 0.001)
	assert.Zero(t, entry.Pending, "posting clears the request's hold")
	assert.Equal(t, 1, entry.Version)
}

func TestPostExecutionIdempotentRetry(t *testing.T) {
	l := New()
	l.Upsert(odcEntry())
	now := time.Now()

	token := NewToken()
	first, err := l.PostExecution("CLIN-0003", "REQ-a", 50000, token, now)
	require.NoError(t, err)

	// Retrying with the same token returns the original result without a
	// second posting.
	second, err := l.PostExecution("CLIN-0003", "REQ-a", 50000, token, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	entry, err := l.Get("CLIN-0003")
	require.NoError(t, err)
	assert.InDelta(t, 500000, entry.Obligated, 0.001)
	assert.Equal(t, 1, entry.Version)
}

func TestPostExecutionRejectsTokenReuseForDifferentPosting(t *testing.T) {
	l := New()
	l.Upsert(odcEntry())
	other := odcEntry()
	other.ID = "CLIN-0004"
	l.Upsert(other)

	token := NewToken()
	_, err := l.PostExecution("CLIN-0003", "REQ-a", 50000, token, time.Now())
	require.NoError(t, err)

	var invalid *schema.InvalidValueError
	_, err = l.PostExecution("CLIN-0003", "REQ-a", 60000, token, time.Now())
	require.ErrorAs(t, err, &invalid, "same token, different amount")

	_, err = l.PostExecution("CLIN-0004", "REQ-b", 50000, token, time.Now())
	require.ErrorAs(t, err, &invalid, "same token, different CLIN")

	entry, err := l.Get("CLIN-0004")
	require.NoError(t, err)
	assert.InDelta(t, 450000, entry.Obligated, 0.001, "misused token must not post")
}

func TestPostExecutionCeilingFault(t *testing.T) {
	l := New()
	l.Upsert(odcEntry())

	_, err := l.PostExecution("CLIN-0003", "REQ-a", 400000, NewToken(), time.Now())
	var fault *schema.LedgerFaultError
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, "CLIN-0003", fault.CLINID)

	entry, err := l.Get("CLIN-0003")
	require.NoError(t, err)
	assert.InDelta(t, 450000, entry.Obligated, 0.001, "failed posting must not mutate the entry")
	assert.Zero(t, entry.Version)
}

func TestPostExecutionRejectsBadToken(t *testing.T) {
	l := New()
	l.Upsert(odcEntry())

	_, err := l.PostExecution("CLIN-0003", "REQ-a", 100, "not-a-uuid", time.Now())
	var invalid *schema.InvalidValueError
	require.ErrorAs(t, err, &invalid)
}

func TestConcurrentReservesNeverDoubleSpend(t *testing.T) {
	l := New()
	l.Upsert(odcEntry()) // 70k available

	const workers = 10
	var wg sync.WaitGroup
	results := make([]schema.FundingStatus, workers)

	// Each worker tries to hold 40k; only one hold can fit in 70k.
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			check, err := l.Reserve("CLIN-0003", fmt.Sprintf("REQ-%c", 'a'+i), 40000)
			assert.NoError(t, err)
			results[i] = check.Status
		}(i)
	}
	wg.Wait()

	granted := 0
	for _, status := range results {
		if status == schema.FundingSufficient {
			granted++
		}
	}
	assert.Equal(t, 1, granted)

	entry, err := l.Get("CLIN-0003")
	require.NoError(t, err)
	assert.InDelta(t, 40000, entry.Pending, 0.001)
}

func TestConcurrentPostingsRespectCeiling(t *testing.T) {
	l := New()
	l.Upsert(odcEntry()) // 350k headroom under the ceiling

	const workers = 10
	var wg sync.WaitGroup
	errs := make([]error, workers)

	// Each worker posts 200k under its own token; only one fits under the
	// ceiling, the rest must fault without partial mutation.
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = l.PostExecution("CLIN-0003", fmt.Sprintf("REQ-%c", 'a'+i), 200000, NewToken(), time.Now())
		}(i)
	}
	wg.Wait()

	posted := 0
	for _, err := range errs {
		if err == nil {
			posted++
			continue
		}
		var fault *schema.LedgerFaultError
		assert.ErrorAs(t, err, &fault)
	}
	assert.Equal(t, 1, posted)

	entry, err := l.Get("CLIN-0003")
	require.NoError(t, err)
	assert.InDelta(t, 650000, entry.Obligated, 0.001)
	assert.Equal(t, 1, entry.Version)
}
