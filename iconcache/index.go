package iconcache

import (
	"bytes"
	"context"
	"encoding/json"
	"regexp"
	"slices"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/go-logr/logr"
	"github.com/perimeterx/marshmallow"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
	"github.com/PandrPi/ProgramViewer3.0/filesystem"
	"github.com/PandrPi/ProgramViewer3.0/parallelisation"
)

// Hashes are used as file names.
var hashKeyRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// IconRecord describes one cached image: the paths sharing it and the modification time of its file when it was last written.
type IconRecord struct {
	Hash          string
	SourcePaths   mapset.Set[string]
	LastWriteTime time.Time
}

func NewIconRecord(hash string, lastWriteTime time.Time, paths ...string) *IconRecord {
	return &IconRecord{
		Hash:          hash,
		SourcePaths:   mapset.NewSet[string](paths...),
		LastWriteTime: filesystem.TruncateTime(lastWriteTime),
	}
}

// Paths returns the source paths in lexical order.
func (r *IconRecord) Paths() []string {
	if r.SourcePaths == nil {
		return []string{}
	}
	paths := r.SourcePaths.ToSlice()
	slices.Sort(paths)
	return paths
}

// Index maps hashes to their record.
type Index map[string]*IconRecord

// Len returns the number of records.
func (i Index) Len() int {
	return len(i)
}

// Record returns the record of `hash`, creating it if necessary.
func (i Index) Record(hash string) *IconRecord {
	r, ok := i[hash]
	if !ok || r == nil {
		r = NewIconRecord(hash, time.Time{})
		i[hash] = r
	}
	return r
}

type recordDocument struct {
	FilesSourcePaths []string `json:"FilesSourcePaths"`
	Path             string   `json:"Path,omitempty"`
	LastWriteTime    string   `json:"LastWriteTime"`
}

// MarshalIndex serialises the index. Output is stable: records and paths are sorted.
func MarshalIndex(index Index) ([]byte, error) {
	documents := make(map[string]recordDocument, len(index))
	for hash, record := range index {
		if record == nil {
			continue
		}
		documents[hash] = recordDocument{
			FilesSourcePaths: record.Paths(),
			LastWriteTime:    filesystem.TruncateTime(record.LastWriteTime).Format(time.RFC3339),
		}
	}
	data, err := json.MarshalIndent(documents, "", "  ")
	if err != nil {
		return nil, commonerrors.WrapError(commonerrors.ErrMarshalling, err, "could not serialise the icon index")
	}
	return append(data, '\n'), nil
}

// UnmarshalIndex parses an index document. An error is only returned when the document as a whole is not a JSON object; invalid records are dropped and logged.
func UnmarshalIndex(data []byte, logger logr.Logger) (Index, error) {
	var raw map[string]json.RawMessage
	err := json.Unmarshal(data, &raw)
	if err != nil {
		return nil, commonerrors.WrapError(commonerrors.ErrCorrupted, err, "icon index is not valid JSON")
	}
	if raw == nil {
		return nil, commonerrors.New(commonerrors.ErrCorrupted, "icon index is not a JSON object")
	}
	index := make(Index, len(raw))
	for hash, content := range raw {
		record, subErr := unmarshalRecord(hash, content, logger)
		if subErr != nil {
			logger.Error(subErr, "dropping invalid icon record", "hash", hash)
			continue
		}
		index[hash] = record
	}
	return index, nil
}

func unmarshalRecord(hash string, content json.RawMessage, logger logr.Logger) (record *IconRecord, err error) {
	if !hashKeyRegex.MatchString(hash) {
		err = commonerrors.Newf(commonerrors.ErrInvalid, "invalid hash [%v]", hash)
		return
	}
	var document recordDocument
	unknown, err := marshmallow.Unmarshal(content, &document, marshmallow.WithExcludeKnownFieldsFromMap(true))
	if err != nil {
		err = commonerrors.WrapError(commonerrors.ErrMarshalling, err, "could not parse record")
		return
	}
	if len(unknown) > 0 {
		logger.V(1).Info("ignoring unknown icon record fields", "hash", hash, "fields", len(unknown))
	}
	var lastWriteTime time.Time
	if document.LastWriteTime != "" {
		lastWriteTime, err = time.Parse(time.RFC3339, document.LastWriteTime)
		if err != nil {
			err = commonerrors.WrapErrorf(commonerrors.ErrInvalid, err, "invalid last write time [%v]", document.LastWriteTime)
			return
		}
	}
	paths := document.FilesSourcePaths
	if document.Path != "" {
		// Older indexes only held a single path per record.
		paths = append(paths, document.Path)
	}
	normalised := make([]string, 0, len(paths))
	for i := range paths {
		if p := filesystem.NormalisePath(paths[i]); p != "" {
			normalised = append(normalised, p)
		}
	}
	record = NewIconRecord(hash, lastWriteTime, normalised...)
	return
}

// LoadIndex reads the index stored at `path`. A missing or corrupted index is replaced by an empty one on disk, and an empty index is returned.
// Any other failure, such as a denied access, is returned and the stored index is left untouched.
func LoadIndex(ctx context.Context, fs filesystem.FS, path string, logger logr.Logger) (index Index, err error) {
	data, err := fs.ReadFileWithContext(ctx, path)
	if err == nil {
		index, err = UnmarshalIndex(data, logger)
		if err == nil {
			logger.V(1).Info("icon index loaded", "path", path, "records", index.Len())
			return
		}
	}
	if ctxErr := parallelisation.DetermineContextError(ctx); ctxErr != nil {
		err = ctxErr
		return
	}
	if !isRecoverableIndexError(err) {
		err = commonerrors.WrapErrorf(commonerrors.ErrUnexpected, filesystem.ConvertFileSystemError(err), "could not read icon index [%v]", path)
		index = nil
		return
	}
	logger.Info("icon index is missing or corrupted, writing an empty one", "path", path, "reason", err.Error())
	index = Index{}
	err = nil
	_ = SaveIndex(ctx, fs, path, index, logger)
	return
}

func isRecoverableIndexError(err error) bool {
	return filesystem.IsPathNotExist(err) || commonerrors.Any(err, commonerrors.ErrNotFound, commonerrors.ErrCorrupted, commonerrors.ErrMarshalling)
}

// SaveIndex writes `index` to `path`. Failures are logged and reported by returning false.
func SaveIndex(ctx context.Context, fs filesystem.FS, path string, index Index, logger logr.Logger) bool {
	data, err := MarshalIndex(index)
	if err == nil {
		err = fs.WriteFileWithContext(ctx, path, bytes.NewReader(data), 0)
	}
	if err != nil {
		logger.Error(err, "could not save icon index", "path", path)
		return false
	}
	return true
}
