package platform

import (
	"fmt"
	"syscall"
	"time"
	"unsafe"
)

var (
	user32               = syscall.NewLazyDLL("user32.dll")
	kernel32             = syscall.NewLazyDLL("kernel32.dll")
	procGetLastInputInfo = user32.NewProc("GetLastInputInfo")
	procGetTickCount64   = kernel32.NewProc("GetTickCount64")
)

type idleProvider struct{}

type lastInputInfo struct {
	cbSize uint32
	dwTime uint32
}

func newIdleProvider() IdleProvider {
	if procGetLastInputInfo.Find() != nil || procGetTickCount64.Find() != nil {
		return unsupportedIdleProvider{}
	}
	return idleProvider{}
}

func (idleProvider) IdleDuration() (time.Duration, error) {
	info := lastInputInfo{cbSize: uint32(unsafe.Sizeof(lastInputInfo{}))}
	result, _, err := procGetLastInputInfo.Call(uintptr(unsafe.Pointer(&info)))
	if result == 0 {
		return 0, fmt.Errorf("get last input info: %w", err)
	}

	ticks, _, _ := procGetTickCount64.Call()
	// dwTime is the low 32 bits of the tick count at last input.
	idleMillis := uint32(uint64(ticks)) - info.dwTime
	return time.Duration(idleMillis) * time.Millisecond, nil
}

type unsupportedIdleProvider struct{}

func (unsupportedIdleProvider) IdleDuration() (time.Duration, error) {
	return 0, ErrIdleUnsupported
}
