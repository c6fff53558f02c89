package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// readBufSize is the pipe read size; chunks are at most this long.
	readBufSize = 32 * 1024

	// exitDrainTimeout bounds how long output already written before an exit
	// is still classified. Pumps normally reach EOF right after the exit;
	// a grandchild holding the pipe open would otherwise block forever.
	exitDrainTimeout = time.Second
)

// Config describes the process a Supervisor launches.
type Config struct {
	// Name labels log entries and capture files. Defaults to the base name
	// of Command.
	Name string
	// Command is the executable, resolved through PATH like exec.Command.
	Command string
	Args    []string
	// Dir is the working directory. Empty inherits the orchestrator's.
	Dir string
	// Env is the child environment. Nil inherits the orchestrator's.
	Env []string
	// Marker is the stdout substring that signals readiness. Required.
	Marker string
	// Stdout and Stderr mirror the child's streams. Nil discards.
	Stdout io.Writer
	Stderr io.Writer
	// LogDir, when set, receives <Name>-stdout.log and <Name>-stderr.log.
	LogDir string
	Logger *slog.Logger
}

// Validate checks that the configuration can launch a process.
func (c Config) Validate() error {
	var errs []error
	if c.Command == "" {
		errs = append(errs, errors.New("command must not be empty"))
	}
	if c.Marker == "" {
		errs = append(errs, errors.New("readiness marker must not be empty"))
	}
	return errors.Join(errs...)
}

// Supervisor spawns a single server process and resolves its readiness.
type Supervisor struct {
	cfg     Config
	log     *slog.Logger
	state   atomic.Int32
	started atomic.Bool
}

// New validates cfg and returns a Supervisor in the Starting state.
func New(cfg Config) (*Supervisor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid process config: %w", err)
	}
	if cfg.Name == "" {
		cfg.Name = filepath.Base(cfg.Command)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Supervisor{
		cfg: cfg,
		log: logger.With("process", cfg.Name),
	}, nil
}

// State returns the current lifecycle state.
func (s *Supervisor) State() State {
	return State(s.state.Load())
}

func (s *Supervisor) setState(st State) {
	prev := State(s.state.Swap(int32(st)))
	if prev != st {
		s.log.Debug("state transition", "from", prev, "to", st)
	}
}

// Start launches the process and blocks until exactly one outcome is
// reached:
//
//   - the marker appears on stdout: the Handle is returned with a nil error;
//   - the OS cannot spawn the command: ErrSpawn;
//   - the process exits first: an *ExitError matching ErrProcessExited;
//   - ctx ends first: ErrReadyTimeout together with a non-nil Handle, since
//     the process is still running and the caller decides whether to stop it.
//
// Output keeps flowing to the configured writers and capture files after
// Start returns, until the process closes its streams or the Handle is
// closed. Start never terminates the process.
func (s *Supervisor) Start(ctx context.Context) (*Handle, error) {
	if !s.started.CompareAndSwap(false, true) {
		return nil, ErrAlreadyStarted
	}
	s.setState(StateStarting)

	var logFiles LogFiles
	if s.cfg.LogDir != "" {
		var err error
		logFiles, err = NewLogFiles(s.cfg.LogDir, s.cfg.Name)
		if err != nil {
			s.setState(StateFailed)
			return nil, fmt.Errorf("create %s logs: %w", s.cfg.Name, err)
		}
	}

	h, err := s.spawn(logFiles)
	if err != nil {
		logFiles.Close()
		s.setState(StateFailed)
		return nil, err
	}
	s.setState(StateRunning)
	s.log.Info("server process started", "pid", h.pid, "command", s.cfg.Command, "args", s.cfg.Args)

	outcome := s.observe(ctx, h)
	close(h.decided)

	switch {
	case outcome == nil:
		s.setState(StateReady)
		s.log.Info("server ready", "pid", h.pid)
		return h, nil
	case errors.Is(outcome, ErrReadyTimeout):
		s.setState(StateTimedOut)
		s.log.Warn("server not ready before deadline; leaving it running", "pid", h.pid)
		return h, outcome
	default:
		s.setState(StateFailed)
		s.log.Error("server failed before readiness", "pid", h.pid, "error", outcome)
		h.Close()
		return nil, outcome
	}
}

// spawn starts the command with parent-owned pipes and the stream pumps.
// The write ends are closed in the parent after Start, so cmd.Wait returns
// on process exit even if a grandchild inherited the pipes.
func (s *Supervisor) spawn(logFiles LogFiles) (*Handle, error) {
	outR, outW, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stdout pipe: %w", ErrSpawn, err)
	}
	errR, errW, err := os.Pipe()
	if err != nil {
		closeAll(outR, outW)
		return nil, fmt.Errorf("%w: stderr pipe: %w", ErrSpawn, err)
	}

	cmd := exec.Command(s.cfg.Command, s.cfg.Args...)
	cmd.Dir = s.cfg.Dir
	cmd.Env = s.cfg.Env
	cmd.Stdout = outW
	cmd.Stderr = errW
	configureSysProcAttr(cmd)

	if err := cmd.Start(); err != nil {
		closeAll(outR, outW, errR, errW)
		return nil, fmt.Errorf("%w: %s: %w", ErrSpawn, s.cfg.Command, err)
	}
	closeAll(outW, errW)

	h := &Handle{
		name:      s.cfg.Name,
		cmd:       cmd,
		pid:       cmd.Process.Pid,
		exited:    make(chan struct{}),
		events:    make(chan event),
		decided:   make(chan struct{}),
		pumpsDone: make(chan struct{}),
		pipes:     []*os.File{outR, errR},
		logFiles:  logFiles,
		log:       s.log,
	}

	go func() {
		h.waitErr = cmd.Wait()
		close(h.exited)
	}()

	var g errgroup.Group
	g.Go(func() error {
		return h.pump(outR, streamStdout, fanout(s.cfg.Stdout, h.logFiles.stdout()))
	})
	g.Go(func() error {
		return h.pump(errR, streamStderr, fanout(s.cfg.Stderr, h.logFiles.stderr()))
	})
	go func() {
		if err := g.Wait(); err != nil {
			h.log.Debug("output pump stopped", "error", err)
		}
		closeAll(outR, errR)
		h.logFiles.Close()
		close(h.pumpsDone)
	}()

	return h, nil
}

// observe consumes output events until the marker is seen, the process
// exits, or ctx ends. It returns nil for readiness.
func (s *Supervisor) observe(ctx context.Context, h *Handle) error {
	match := newMarkerMatcher(s.cfg.Marker)
	for {
		select {
		case ev := <-h.events:
			if ready, err := s.classify(match, ev); err != nil || ready {
				return err
			}
		case <-h.exited:
			return s.observeExit(match, h)
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrReadyTimeout, context.Cause(ctx))
		}
	}
}

// observeExit classifies output the process wrote before it exited. A marker
// in that output still counts as readiness.
func (s *Supervisor) observeExit(match *markerMatcher, h *Handle) error {
	t := time.NewTimer(exitDrainTimeout)
	defer t.Stop()

	for {
		select {
		case ev := <-h.events:
			if ready, err := s.classify(match, ev); err != nil || ready {
				return err
			}
		case <-h.pumpsDone:
			return newExitError(h.waitErr)
		case <-t.C:
			return newExitError(h.waitErr)
		}
	}
}

func (s *Supervisor) classify(match *markerMatcher, ev event) (bool, error) {
	switch {
	case ev.err != nil:
		return false, fmt.Errorf("%w: %s: %w", ErrStream, ev.stream, ev.err)
	case ev.stream == streamStdout:
		return match.feed(ev.data), nil
	default:
		return false, nil
	}
}

type stream string

const (
	streamStdout stream = "stdout"
	streamStderr stream = "stderr"
)

// event is one chunk of output, or a read failure, from one stream.
type event struct {
	stream stream
	data   []byte
	err    error
}

// fanout returns a writer copying to every non-nil w. Write failures on one
// destination never stop the others or the pump.
func fanout(ws ...io.Writer) io.Writer {
	var dst multiWriter
	for _, w := range ws {
		if w != nil {
			dst = append(dst, w)
		}
	}
	return dst
}

type multiWriter []io.Writer

func (m multiWriter) Write(p []byte) (int, error) {
	for _, w := range m {
		_, _ = w.Write(p)
	}
	return len(p), nil
}

func closeAll(files ...*os.File) {
	for _, f := range files {
		_ = f.Close()
	}
}

// pump copies one stream to dst and, until the outcome is decided, hands
// every chunk to the observer in arrival order.
func (h *Handle) pump(r io.Reader, name stream, dst io.Writer) error {
	buf := make([]byte, readBufSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := slices.Clone(buf[:n])
			_, _ = dst.Write(chunk)
			h.publish(event{stream: name, data: chunk})
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) {
				return nil
			}
			h.publish(event{stream: name, err: err})
			return fmt.Errorf("read %s: %w", name, err)
		}
	}
}

func (h *Handle) publish(ev event) {
	select {
	case h.events <- ev:
	case <-h.decided:
	}
}
