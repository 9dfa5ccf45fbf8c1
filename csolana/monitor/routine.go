package monitor

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

func (m *Monitor) routine(ctx context.Context) {
	defer close(m.done)
	defer close(m.c)

	ticker := time.NewTicker(m.delay)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			signatures, err := m.task(ctx)
			if err != nil {
				m.log.Warn().Err(err).Msg("get signatures for address")
				continue
			}

			for _, signature := range signatures {
				select {
				case m.c <- signature:
				case <-ctx.Done():
					return
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

// task returns the successful signatures that landed since the previous
// call, oldest first. The first call only records the newest signature.
func (m *Monitor) task(ctx context.Context) ([]solana.Signature, error) {
	opts := &rpc.GetSignaturesForAddressOpts{
		Commitment: m.commitment,
		Until:      m.until,
	}

	resp, err := m.lister.GetSignaturesForAddressWithOpts(ctx, m.address, opts)
	if err != nil {
		return nil, err
	}

	if len(resp) > 0 {
		m.until = resp[0].Signature
	}
	if !m.started {
		m.started = true
		return nil, nil
	}

	var signatures []solana.Signature
	for i := len(resp) - 1; i >= 0; i-- {
		if resp[i].Err != nil {
			continue
		}
		signatures = append(signatures, resp[i].Signature)
	}

	if len(signatures) > 0 {
		m.log.Debug().Int("count", len(signatures)).Msg("new signatures")
	}
	return signatures, nil
}
