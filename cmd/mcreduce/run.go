package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pior/mcroute"
	"github.com/pior/mcroute/config"
	"github.com/pior/mcroute/meta"
	"github.com/pior/mcroute/msg"
	"github.com/pior/mcroute/route"
	"github.com/pior/mcroute/stats"
	"github.com/rs/zerolog"
)

// source is the reply stream of one destination.
type source struct {
	dest    *mcroute.AccessPoint
	replies []*mcroute.Reply
}

func (s *source) close() {
	for _, r := range s.replies {
		if r != nil {
			r.Close()
		}
	}
}

func run(ctx context.Context, stdin io.Reader, stdout io.Writer, logger zerolog.Logger, opts options, args []string) error {
	op, err := msg.ParseOp(opts.op)
	if err != nil {
		return err
	}

	cfg := config.Default()
	if opts.configFile != "" {
		cfg, err = config.Load(opts.configFile)
		if err != nil {
			return err
		}
	}

	pool, err := msg.NewPool(cfg.MsgPoolSize)
	if err != nil {
		return fmt.Errorf("create message pool: %w", err)
	}
	defer pool.Close()

	sources := make(map[*mcroute.AccessPoint]*source, len(args))
	dests := make([]*mcroute.AccessPoint, 0, len(args))
	names := make(map[string]struct{}, len(args))
	defer func() {
		for _, s := range sources {
			s.close()
		}
	}()

	positions := 0
	for _, arg := range args {
		s, err := loadSource(arg, stdin, op)
		if err != nil {
			return err
		}
		if _, dup := names[s.dest.String()]; dup {
			s.close()
			return fmt.Errorf("duplicate destination %s", s.dest)
		}
		names[s.dest.String()] = struct{}{}
		sources[s.dest] = s
		dests = append(dests, s.dest)
		positions = max(positions, len(s.replies))

		logger.Debug().
			Stringer("destination", s.dest).
			Int("replies", len(s.replies)).
			Msg("source loaded")
	}

	// index only changes between routes, sends read it concurrently.
	var index int
	send := func(_ context.Context, dest *mcroute.AccessPoint) *mcroute.Reply {
		s := sources[dest]
		if index >= len(s.replies) {
			return nil
		}
		r := s.replies[index].Move()
		s.replies[index] = nil
		return r
	}

	recorder := stats.NewRecorder()
	recorder.TrackPool(pool)

	fn := route.SendFunc(send)
	if opts.tko {
		tracker := route.NewTkoTracker(cfg.Tko, logger)
		recorder.TrackTko(tracker)
		fn = tracker.Wrap(fn)
	}

	allSync := &route.AllSyncRoute{
		Policy: cfg.Severity,
		Logger: logger,
	}

	out := bufio.NewWriter(stdout)
	for index = 0; index < positions; index++ {
		r := allSync.Route(ctx, dests, fn)
		recorder.Record(r)

		err := emit(ctx, out, pool, op, index, r, opts.emit)
		r.Close()
		if err != nil {
			return err
		}
	}
	if err := out.Flush(); err != nil {
		return err
	}

	if opts.stats {
		logStats(logger, recorder.Snapshot())
	}
	return nil
}

func emit(ctx context.Context, w *bufio.Writer, pool *msg.Pool, op msg.Op, index int, r *mcroute.Reply, wire bool) error {
	if !wire {
		_, err := fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", index, r.Result(), r.Destination(), r.ValueSize())
		return err
	}

	m, err := r.ReleasedMsgFrom(ctx, pool, op)
	if err != nil {
		return fmt.Errorf("reply %d: %w", index, err)
	}
	defer m.Release()

	return meta.WriteResponse(w, m)
}

// loadSource reads "[ADDR=]FILE". Without ADDR the destination is named
// after the file.
func loadSource(arg string, stdin io.Reader, op msg.Op) (*source, error) {
	path := arg
	var dest *mcroute.AccessPoint
	if addr, p, ok := strings.Cut(arg, "="); ok {
		ap, err := mcroute.ParseAccessPoint(addr)
		if err != nil {
			return nil, err
		}
		dest, path = ap, p
	} else {
		dest = mcroute.NewAccessPoint(filepath.Base(path), 0, mcroute.ProtocolMeta)
	}

	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	s := &source{dest: dest}
	if err := s.read(bufio.NewReader(r), op); err != nil {
		s.close()
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return s, nil
}

func (s *source) read(r *bufio.Reader, op msg.Op) error {
	for {
		resp, err := meta.ReadResponse(r)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		m := meta.ToMsg(op, resp)
		reply := mcroute.FromMsg(m)
		m.Release()

		reply.SetDestination(s.dest)
		s.replies = append(s.replies, reply)
	}
}

func logStats(logger zerolog.Logger, snap stats.Snapshot) {
	event := logger.Info().Uint64("replies", snap.Replies)
	for _, c := range stats.Categories() {
		event.Uint64(c.String(), snap.ByCategory[c])
	}
	event.Msg("reply stats")
}
