package transport

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/danmuck/mpdwire/internal/config"
	"github.com/danmuck/mpdwire/internal/observability"
	"github.com/danmuck/mpdwire/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Poller runs a fetch on a fixed interval, redialing after transport failures.
// Decode failures are logged and the next tick proceeds on the same connection.
type Poller struct {
	cfg    config.MPDConfig
	dial   Dialer
	policy ReconnectPolicy
	rng    *rand.Rand
	client *Client
}

func NewPoller(cfg config.MPDConfig, dial Dialer) *Poller {
	if dial == nil {
		dial = DialMPD
	}
	policy := DefaultReconnectPolicy()
	if cfg.ReconnectMaxDelay > 0 {
		policy.MaxDelay = cfg.ReconnectMaxDelay
	}
	return &Poller{
		cfg:    cfg,
		dial:   dial,
		policy: policy,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetPolicy replaces the redial backoff.
func (p *Poller) SetPolicy(policy ReconnectPolicy) {
	p.policy = policy
}

// Connect dials until it succeeds, ctx ends, or maxAttempts dials have
// failed. A maxAttempts of zero retries without limit. A held connection is
// pinged before reuse and redialed if the ping fails.
func (p *Poller) Connect(ctx context.Context, maxAttempts int) (*Client, error) {
	if p.client != nil {
		err := p.client.Ping()
		if err == nil {
			return p.client, nil
		}
		log.Warn().Err(err).Str("addr", p.cfg.Addr).Msg("transport ping failed, redialing")
		p.drop()
	}
	for attempt := 1; ; attempt++ {
		conn, err := p.dial(p.cfg.Network, p.cfg.Addr, p.cfg.Password)
		if err == nil {
			if attempt > 1 {
				observability.RecordReconnect()
			}
			log.Info().Str("addr", p.cfg.Addr).Int("attempt", attempt).Msg("transport connected")
			p.client = New(conn)
			return p.client, nil
		}
		if maxAttempts > 0 && attempt >= maxAttempts {
			return nil, protocol.WrapTransport(fmt.Errorf("transport: dial %s: %w", p.cfg.Addr, err))
		}
		delay := NextDelay(p.policy, attempt, p.rng)
		log.Warn().Err(err).Str("addr", p.cfg.Addr).Dur("retry_in", delay).Msg("transport dial failed")
		if err := sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
}

// Run calls fn once per interval until ctx ends. A zero interval dials once,
// runs fn once and returns its error.
func (p *Poller) Run(ctx context.Context, interval time.Duration, fn func(*Client) error) error {
	defer p.drop()
	maxAttempts := 0
	if interval <= 0 {
		maxAttempts = 1
	}
	for {
		client, err := p.Connect(ctx, maxAttempts)
		if err != nil {
			return ignoreCanceled(err)
		}
		err = fn(client)
		if interval <= 0 {
			return err
		}
		switch {
		case err == nil:
		case errors.Is(err, protocol.ErrTransport):
			log.Warn().Err(err).Msg("transport failure, redialing")
			p.drop()
		default:
			log.Error().Err(err).Msg("decode failed")
		}
		if err := sleep(ctx, interval); err != nil {
			return ignoreCanceled(err)
		}
	}
}

func (p *Poller) drop() {
	if p.client == nil {
		return
	}
	if err := p.client.Close(); err != nil {
		log.Debug().Err(err).Msg("transport close")
	}
	p.client = nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
