package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	smerrors "github.com/Station-Manager/errors"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

// rotatingFile writes to <dir>/<prefix>-<date>.log. lumberjack rolls the file
// over on size; a date change switches to the next day's file. The
// <prefix>-current.log symlink follows the active file.
type rotatingFile struct {
	mu   sync.Mutex
	dir  string
	opts FileOptions
	now  func() time.Time
	day  string
	file *lumberjack.Logger
}

func openRotatingFile(dir string, opts FileOptions, now func() time.Time) (*rotatingFile, error) {
	if err := ensureWritable(dir); err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	f := &rotatingFile{dir: dir, opts: opts, now: now}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.rollLocked(now())
	return f, nil
}

func (f *rotatingFile) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if t := f.now(); t.Format(fileDateLayout) != f.day {
		f.rollLocked(t)
	}
	return f.file.Write(p)
}

// Filename returns the path of the active file.
func (f *rotatingFile) Filename() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.file.Filename
}

func (f *rotatingFile) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.file == nil {
		return nil
	}
	return f.file.Close()
}

// rollLocked points the file at the day of t. One lumberjack.Logger serves
// every day, so the sink keeps a single mill goroutine for its lifetime.
func (f *rotatingFile) rollLocked(t time.Time) {
	f.day = t.Format(fileDateLayout)
	name := filepath.Join(f.dir, fmt.Sprintf("%s-%s.log", f.opts.Prefix, f.day))
	if f.file == nil {
		f.file = &lumberjack.Logger{
			MaxSize:    f.opts.MaxSizeMB,
			MaxBackups: f.opts.MaxBackups,
			MaxAge:     f.opts.MaxAgeDays,
			Compress:   f.opts.Compress,
			LocalTime:  true,
		}
	} else {
		// The next Write reopens at the new Filename.
		_ = f.file.Close()
	}
	f.file.Filename = name
	f.linkCurrent(name)
}

// linkCurrent points <prefix>-current.log at name. Platforms without
// symlinks simply go without it.
func (f *rotatingFile) linkCurrent(name string) {
	link := filepath.Join(f.dir, f.opts.Prefix+currentFileSuffix)
	_ = os.Remove(link)
	_ = os.Symlink(filepath.Base(name), link)
}

// ensureWritable creates dir if needed and proves a file can be created in it.
func ensureWritable(dir string) error {
	const op smerrors.Op = "logging.ensureWritable"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return smerrors.New(op).Err(err).Msg(errMsgLogDirNotWritable)
	}
	probe, err := os.CreateTemp(dir, ".write-check-*")
	if err != nil {
		return smerrors.New(op).Err(err).Msg(errMsgLogDirNotWritable)
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return nil
}

// openFileSink builds the rotating file sink described by settings.
func openFileSink(settings Settings, cwd string, now func() time.Time) (*zerologSink, error) {
	const op smerrors.Op = "logging.openFileSink"
	rf, err := openRotatingFile(settings.Dir, settings.Rotation, now)
	if err != nil {
		return nil, smerrors.New(op).Err(err).Msg(errMsgFileSinkDropped)
	}
	if settings.Rotation.Format == formatJSON {
		return newJSONSink(SinkFile, rf, settings.File, cwd, rf), nil
	}
	return newTextSink(SinkFile, rf, settings.File, lineFormat{cwd: cwd}, rf), nil
}

// newConsoleSink builds the console sink; colour follows the terminal unless forced.
func newConsoleSink(out io.Writer, level Level, color *bool, cwd string) *zerologSink {
	useColor := isTerminal(out)
	if color != nil {
		useColor = *color
	}
	return newTextSink(SinkConsole, out, level, lineFormat{color: useColor, cwd: cwd}, nil)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
