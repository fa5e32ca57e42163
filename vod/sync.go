package vod

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Jonathanpatta/twitch-clip-vod-sync/telemetry"
)

const tracerName = "vod"

// Result is a fully resolved sync: the moment the input link points at and
// the link into the streamer's VOD at that moment.
type Result struct {
	Streamer Streamer
	Moment   time.Time
	Match    Match
	URL      string
}

// Syncer runs the full resolution: streamer lookup, link resolution and VOD
// search. It holds no per-request state and is safe for concurrent use.
type Syncer struct {
	gateway  Gateway
	resolver *Resolver
	locator  *Locator
}

// NewSyncer returns a Syncer backed by gw.
func NewSyncer(gw Gateway) *Syncer {
	return &Syncer{
		gateway:  gw,
		resolver: &Resolver{Gateway: gw},
		locator:  &Locator{Gateway: gw},
	}
}

// Sync finds the VOD of streamer login that was live when rawURL happened and
// returns a timestamped link into it.
func (s *Syncer) Sync(ctx context.Context, login, rawURL string) (Result, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "vod.sync",
		attribute.String("streamer", login),
		attribute.String("url", rawURL),
	)
	defer span.End()
	logger := telemetry.LoggerWithCorr(ctx).With(slog.String("component", "vod_sync"), slog.String("streamer", login))

	start := time.Now()
	res, err := s.sync(ctx, login, rawURL)
	if err != nil {
		class := Classify(err)
		telemetry.ObserveSync(class.String(), time.Since(start))
		telemetry.RecordError(span, err)
		logger.Info("sync failed", slog.String("url", rawURL), slog.String("class", class.String()), slog.Any("err", err))
		return Result{}, err
	}
	telemetry.ObserveSync("ok", time.Since(start))
	telemetry.SetSpanSuccess(span)
	logger.Info("sync resolved",
		slog.String("url", rawURL),
		slog.Time("moment", res.Moment),
		slog.String("vod_id", res.Match.Broadcast.ID),
		slog.String("offset", res.Match.Offset.String()),
	)
	return res, nil
}

func (s *Syncer) sync(ctx context.Context, login, rawURL string) (Result, error) {
	if _, err := ClassifyURL(rawURL); err != nil {
		return Result{}, err
	}

	streamer, err := s.lookupUser(ctx, login)
	if err != nil {
		return Result{}, err
	}

	moment, err := s.resolve(ctx, rawURL)
	if err != nil {
		return Result{}, err
	}

	match, err := s.locate(ctx, streamer, moment)
	if err != nil {
		return Result{}, err
	}

	return Result{Streamer: streamer, Moment: moment, Match: match, URL: match.URL()}, nil
}

func (s *Syncer) lookupUser(ctx context.Context, login string) (Streamer, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "vod.lookup_user")
	defer span.End()
	streamer, err := s.gateway.LookupUser(ctx, login)
	telemetry.RecordError(span, err)
	return streamer, err
}

func (s *Syncer) resolve(ctx context.Context, rawURL string) (time.Time, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "vod.resolve")
	defer span.End()
	moment, err := s.resolver.Resolve(ctx, rawURL)
	if err != nil {
		telemetry.RecordError(span, err)
		return time.Time{}, err
	}
	span.SetAttributes(attribute.String("moment", moment.Format(time.RFC3339)))
	return moment, nil
}

func (s *Syncer) locate(ctx context.Context, streamer Streamer, moment time.Time) (Match, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "vod.locate", attribute.String("user_id", streamer.ID))
	defer span.End()
	match, err := s.locator.Locate(ctx, streamer.ID, moment)
	if err != nil {
		telemetry.RecordError(span, err)
		if errors.Is(err, ErrNoBroadcasts) || errors.Is(err, ErrNoMatchingBroadcast) {
			err = &StreamerError{Streamer: streamer.DisplayName, Err: err}
		}
		return Match{}, err
	}
	span.SetAttributes(attribute.String("vod_id", match.Broadcast.ID))
	return match, nil
}
