package analysis

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/djherbis/times"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
	"github.com/rwcarlsen/goexif/tiff"

	serr "declutter/internal/errors"
	log "declutter/internal/log"
	"declutter/pkg/types"
)

// Analyzer defines the interface for file type specific analyzers
type Analyzer interface {
	// CanHandle checks if this analyzer is suitable for the given content type
	CanHandle(contentType string) bool
	// Analyze performs the specific analysis and updates FileInfo
	Analyze(path string, info *types.FileInfo) (*types.FileInfo, error)
}

// --- Concrete Analyzer Implementations ---

// ImageAnalyzer extracts EXIF metadata from image files. Fields are
// keyed "EXIF:<ifd>:<tag>" with the raw tag value; the most relevant
// timestamp is additionally exposed under the "EXIF:DateTime" alias.
type ImageAnalyzer struct{}

// CanHandle checks if the content type is an image type that might contain EXIF data
func (a *ImageAnalyzer) CanHandle(contentType string) bool {
	return strings.HasPrefix(contentType, "image/") || contentType == "application/octet-stream"
}

// Analyze extracts EXIF metadata from image files
func (a *ImageAnalyzer) Analyze(path string, info *types.FileInfo) (*types.FileInfo, error) {
	logger := log.LogWithFields(log.F("path", path))

	if info.Metadata == nil {
		info.Metadata = make(map[string]string)
	}

	file, err := os.Open(path)
	if err != nil {
		return info, fmt.Errorf("failed to open image file for exif: %w", err)
	}
	defer file.Close()

	x, err := exif.Decode(file)
	if err != nil {
		logger.Debugf("No EXIF data found or failed to decode: %v", err)
		return info, nil // Not an error if no EXIF data
	}

	walker := &exifWalker{meta: info.Metadata}
	if err := x.Walk(walker); err != nil {
		logger.Debugf("EXIF walk stopped early: %v", err)
	}

	// Alias the most relevant timestamp tag for templates and conditions
	for _, name := range []exif.FieldName{exif.DateTimeOriginal, exif.DateTime} {
		if tag, err := x.Get(name); err == nil {
			if val, err := tag.StringVal(); err == nil && val != "" {
				info.Metadata["EXIF:DateTime"] = val
				break
			}
		}
	}

	return info, nil
}

// exifWalker collects every decoded EXIF field into a metadata map
type exifWalker struct {
	meta map[string]string
}

func (w *exifWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	val, err := tag.StringVal()
	if err != nil {
		val = tag.String()
	}
	w.meta["EXIF:"+ifdLabel(name)+":"+string(name)] = val
	return nil
}

// ifd0Fields are the tags stored in the root image IFD rather than the
// Exif sub-IFD.
var ifd0Fields = map[exif.FieldName]bool{
	exif.ImageWidth:       true,
	exif.ImageLength:      true,
	exif.Make:             true,
	exif.Model:            true,
	exif.Software:         true,
	exif.Artist:           true,
	exif.Copyright:        true,
	exif.Orientation:      true,
	exif.XResolution:      true,
	exif.YResolution:      true,
	exif.ResolutionUnit:   true,
	exif.DateTime:         true,
	exif.ImageDescription: true,
}

func ifdLabel(name exif.FieldName) string {
	switch {
	case strings.HasPrefix(string(name), "GPS"):
		return "GPS"
	case strings.HasPrefix(string(name), "Interoperability"):
		return "Interop"
	case ifd0Fields[name]:
		return "IFD0"
	default:
		return "Exif"
	}
}

// --- Engine Implementation ---

// Engine handles file metadata extraction and content type detection
type Engine struct {
	analyzers []Analyzer // List of registered analyzers
}

// registerAnalyzer adds an analyzer to the engine's list
func (e *Engine) registerAnalyzer(analyzer Analyzer) {
	e.analyzers = append(e.analyzers, analyzer)
}

// New creates a new Analysis Engine instance and registers default analyzers
func New() *Engine {
	exif.RegisterParsers(mknote.All...)
	engine := &Engine{}
	engine.registerAnalyzer(&ImageAnalyzer{})
	return engine
}

// MimeByExtension guesses a file's MIME type from its extension alone,
// with any parameters (charset) stripped. Unknown extensions yield "".
func MimeByExtension(path string) string {
	mtype := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if i := strings.Index(mtype, ";"); i >= 0 {
		mtype = strings.TrimSpace(mtype[:i])
	}
	return mtype
}

// Scan performs basic file analysis: stat-derived metadata plus the
// extension-guessed content type.
func (e *Engine) Scan(path string) (*types.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, serr.NewFileError("failed to stat file", path, serr.FileNotFound, err)
		}
		return nil, serr.NewFileError("failed to stat file", path, serr.FileAccessDenied, err)
	}

	meta := map[string]string{
		"size":     strconv.FormatInt(info.Size(), 10),
		"modified": info.ModTime().UTC().Format(time.RFC3339),
	}
	if ts, err := times.Stat(path); err == nil && ts.HasBirthTime() {
		meta["created"] = ts.BirthTime().UTC().Format(time.RFC3339)
	}

	return &types.FileInfo{
		Path:        path,
		ContentType: MimeByExtension(path),
		Size:        info.Size(),
		Metadata:    meta,
	}, nil
}

// Analyze performs analysis by delegating to registered analyzers
func (e *Engine) Analyze(path string) (*types.FileInfo, error) {
	logger := log.LogWithFields(log.F("path", path))
	fileInfo, err := e.Scan(path)
	if err != nil {
		return nil, err
	}

	for _, analyzer := range e.analyzers {
		if analyzer.CanHandle(fileInfo.ContentType) {
			logger.Debugf("Using analyzer %T for content type %s", analyzer, fileInfo.ContentType)
			fileInfo, err = analyzer.Analyze(path, fileInfo)
			if err != nil {
				logger.With(log.F("analyzer", fmt.Sprintf("%T", analyzer)), log.F("error", err.Error())).Warn("Analyzer failed, returning partial info")
				return fileInfo, nil // Return info obtained so far even if analyzer fails
			}
			break
		}
	}

	return fileInfo, nil
}

// Metadata builds the full metadata mapping for a file: stat-derived
// keys (size, created, modified) plus EXIF fields where available.
func (e *Engine) Metadata(path string) (map[string]string, error) {
	info, err := e.Analyze(path)
	if err != nil {
		return nil, err
	}
	return info.Metadata, nil
}
