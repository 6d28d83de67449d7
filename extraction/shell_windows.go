//go:build windows

package extraction

import (
	"context"
	"errors"
	"image"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
	"github.com/PandrPi/ProgramViewer3.0/parallelisation"
)

var (
	shell32 = windows.NewLazySystemDLL("shell32.dll")
	user32  = windows.NewLazySystemDLL("user32.dll")
	gdi32   = windows.NewLazySystemDLL("gdi32.dll")

	procSHGetFileInfoW     = shell32.NewProc("SHGetFileInfoW")
	procGetIconInfo        = user32.NewProc("GetIconInfo")
	procDestroyIcon        = user32.NewProc("DestroyIcon")
	procGetDC              = user32.NewProc("GetDC")
	procReleaseDC          = user32.NewProc("ReleaseDC")
	procCreateCompatibleDC = gdi32.NewProc("CreateCompatibleDC")
	procDeleteDC           = gdi32.NewProc("DeleteDC")
	procGetObjectW         = gdi32.NewProc("GetObjectW")
	procGetDIBits          = gdi32.NewProc("GetDIBits")
	procDeleteObject       = gdi32.NewProc("DeleteObject")
)

const (
	shgfiIcon      = 0x000000100
	shgfiLargeIcon = 0x000000000
	dibRGBColours  = 0
)

type shFileInfo struct {
	hIcon         windows.Handle
	iIcon         int32
	dwAttributes  uint32
	szDisplayName [windows.MAX_PATH]uint16
	szTypeName    [80]uint16
}

type iconInfo struct {
	fIcon    int32
	xHotspot uint32
	yHotspot uint32
	hbmMask  windows.Handle
	hbmColor windows.Handle
}

type bitmap struct {
	bmType       int32
	bmWidth      int32
	bmHeight     int32
	bmWidthBytes int32
	bmPlanes     uint16
	bmBitsPixel  uint16
	bmBits       uintptr
}

type bitmapInfoHeader struct {
	biSize          uint32
	biWidth         int32
	biHeight        int32
	biPlanes        uint16
	biBitCount      uint16
	biCompression   uint32
	biSizeImage     uint32
	biXPelsPerMeter int32
	biYPelsPerMeter int32
	biClrUsed       uint32
	biClrImportant  uint32
}

// ShellExtractor extracts the large icon the Windows shell associates with a path.
// The shell API is thread-affine: calls must go through a Dispatcher, which initialises COM on its thread.
type ShellExtractor struct{}

var _ ThreadInitialiser = &ShellExtractor{}

func NewShellExtractor() *ShellExtractor {
	return &ShellExtractor{}
}

func (e *ShellExtractor) ExtractIcon(ctx context.Context, path string) (img image.Image, err error) {
	err = parallelisation.DetermineContextError(ctx)
	if err != nil {
		return
	}
	pathPtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		err = commonerrors.WrapErrorf(commonerrors.ErrInvalid, err, "invalid path [%v]", path)
		return
	}
	var info shFileInfo
	ret, _, callErr := procSHGetFileInfoW.Call(
		uintptr(unsafe.Pointer(pathPtr)),
		0,
		uintptr(unsafe.Pointer(&info)),
		unsafe.Sizeof(info),
		shgfiIcon|shgfiLargeIcon,
	)
	if ret == 0 || info.hIcon == 0 {
		err = commonerrors.WrapErrorf(commonerrors.ErrNotFound, callErr, "no shell icon for [%v]", path)
		return
	}
	defer func() { _, _, _ = procDestroyIcon.Call(uintptr(info.hIcon)) }()
	return iconToImage(info.hIcon)
}

func iconToImage(hIcon windows.Handle) (img image.Image, err error) {
	var ii iconInfo
	ret, _, _ := procGetIconInfo.Call(uintptr(hIcon), uintptr(unsafe.Pointer(&ii)))
	if ret == 0 {
		err = commonerrors.New(commonerrors.ErrUnexpected, "GetIconInfo failed")
		return
	}
	defer func() { _, _, _ = procDeleteObject.Call(uintptr(ii.hbmMask)) }()
	defer func() { _, _, _ = procDeleteObject.Call(uintptr(ii.hbmColor)) }()
	if ii.hbmColor == 0 {
		err = commonerrors.New(commonerrors.ErrUnsupported, "monochrome icons are not supported")
		return
	}

	var bm bitmap
	ret, _, _ = procGetObjectW.Call(uintptr(ii.hbmColor), unsafe.Sizeof(bm), uintptr(unsafe.Pointer(&bm)))
	if ret == 0 || bm.bmWidth <= 0 || bm.bmHeight <= 0 {
		err = commonerrors.New(commonerrors.ErrUnexpected, "GetObject failed")
		return
	}

	hdc, _, _ := procGetDC.Call(0)
	if hdc == 0 {
		err = commonerrors.New(commonerrors.ErrUnexpected, "GetDC failed")
		return
	}
	defer func() { _, _, _ = procReleaseDC.Call(0, hdc) }()
	hdcMem, _, _ := procCreateCompatibleDC.Call(hdc)
	if hdcMem == 0 {
		err = commonerrors.New(commonerrors.ErrUnexpected, "CreateCompatibleDC failed")
		return
	}
	defer func() { _, _, _ = procDeleteDC.Call(hdcMem) }()

	width, height := int(bm.bmWidth), int(bm.bmHeight)
	bi := bitmapInfoHeader{
		biSize:     uint32(unsafe.Sizeof(bitmapInfoHeader{})),
		biWidth:    bm.bmWidth,
		biHeight:   -bm.bmHeight, // top-down rows
		biPlanes:   1,
		biBitCount: 32,
	}
	pixels, err := dibits(hdcMem, ii.hbmColor, &bi, width, height)
	if err != nil {
		return
	}
	// Icons without an alpha channel rely on their AND mask for transparency.
	mask, subErr := dibits(hdcMem, ii.hbmMask, &bi, width, height)
	if subErr != nil {
		mask = nil
	}
	img = bgraToNRGBA(pixels, mask, width, height)
	return
}

func dibits(hdc uintptr, hbm windows.Handle, header *bitmapInfoHeader, width, height int) (pixels []byte, err error) {
	if hbm == 0 {
		err = commonerrors.New(commonerrors.ErrUndefined, "missing bitmap")
		return
	}
	bi := *header
	pixels = make([]byte, width*height*4)
	ret, _, _ := procGetDIBits.Call(
		hdc,
		uintptr(hbm),
		0,
		uintptr(height),
		uintptr(unsafe.Pointer(&pixels[0])),
		uintptr(unsafe.Pointer(&bi)),
		dibRGBColours,
	)
	if ret == 0 {
		pixels = nil
		err = commonerrors.New(commonerrors.ErrUnexpected, "GetDIBits failed")
	}
	return
}

// InitialiseThread initialises COM in single-threaded apartment mode, as the shell requires, on the calling OS thread.
func (e *ShellExtractor) InitialiseThread() error {
	err := windows.CoInitializeEx(0, windows.COINIT_APARTMENTTHREADED)
	// S_FALSE reports that COM was already initialised on this thread.
	if err != nil && !errors.Is(err, syscall.Errno(windows.S_FALSE)) {
		return commonerrors.WrapError(commonerrors.ErrUnexpected, err, "could not initialise COM")
	}
	return nil
}

// ReleaseThread undoes InitialiseThread.
func (e *ShellExtractor) ReleaseThread() {
	windows.CoUninitialize()
}
