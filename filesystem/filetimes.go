package filesystem

import (
	"os"
	"time"

	fileTimes "github.com/djherbis/times"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
)

// DetermineFileTimes returns the times recorded for `info`. Only the modification time is available for filesystems which do not expose system information (e.g. in-memory).
func DetermineFileTimes(info os.FileInfo) (times FileTimeInfo, err error) {
	if info == nil {
		err = commonerrors.New(commonerrors.ErrUndefined, "no file information defined")
		return
	}
	if info.Sys() == nil {
		times = newDefaultTimeInfo(info)
	} else {
		times = &genericTimeInfo{fileTimes.Get(info)}
	}
	return
}

// LastWriteTime returns the modification time of `info` in UTC truncated to the second, which is the precision kept in the cache index.
func LastWriteTime(info os.FileInfo) time.Time {
	if info == nil {
		return time.Time{}
	}
	return TruncateTime(info.ModTime())
}

func TruncateTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

type defaultTimeInfo struct {
	modTime time.Time
}

func (i *defaultTimeInfo) ModTime() time.Time    { return i.modTime }
func (i *defaultTimeInfo) AccessTime() time.Time { return i.modTime }
func (i *defaultTimeInfo) ChangeTime() time.Time { return i.modTime }
func (i *defaultTimeInfo) BirthTime() time.Time  { return i.modTime }
func (i *defaultTimeInfo) HasChangeTime() bool   { return false }
func (i *defaultTimeInfo) HasBirthTime() bool    { return false }
func (i *defaultTimeInfo) HasAccessTime() bool   { return false }

func newDefaultTimeInfo(f os.FileInfo) (info *defaultTimeInfo) {
	info = &defaultTimeInfo{}
	if f != nil {
		info.modTime = f.ModTime()
	}
	return
}

type genericTimeInfo struct {
	fileTimes.Timespec
}

func (i *genericTimeInfo) HasAccessTime() bool {
	return true
}
