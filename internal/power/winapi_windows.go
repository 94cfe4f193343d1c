//go:build windows

package power

import (
	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procRegisterClassExW                   = user32.NewProc("RegisterClassExW")
	procUnregisterClassW                   = user32.NewProc("UnregisterClassW")
	procCreateWindowExW                    = user32.NewProc("CreateWindowExW")
	procDestroyWindow                      = user32.NewProc("DestroyWindow")
	procDefWindowProcW                     = user32.NewProc("DefWindowProcW")
	procGetMessageW                        = user32.NewProc("GetMessageW")
	procTranslateMessage                   = user32.NewProc("TranslateMessage")
	procDispatchMessageW                   = user32.NewProc("DispatchMessageW")
	procPostThreadMessageW                 = user32.NewProc("PostThreadMessageW")
	procRegisterPowerSettingNotification   = user32.NewProc("RegisterPowerSettingNotification")
	procUnregisterPowerSettingNotification = user32.NewProc("UnregisterPowerSettingNotification")
	procGetSystemMetrics                   = user32.NewProc("GetSystemMetrics")
	procLockWorkStation                    = user32.NewProc("LockWorkStation")
)

const (
	wmQuit = 0x0012

	cwUseDefault = 0x80000000

	deviceNotifyWindowHandle = 0x00000000

	smRemoteSession = 0x1000
)

// hwndMessage is HWND_MESSAGE, the parent of message-only windows.
var hwndMessage = ^uintptr(2)

type wndClassEx struct {
	Size       uint32
	Style      uint32
	WndProc    uintptr
	ClsExtra   int32
	WndExtra   int32
	Instance   windows.Handle
	Icon       windows.Handle
	Cursor     windows.Handle
	Background windows.Handle
	MenuName   *uint16
	ClassName  *uint16
	IconSm     windows.Handle
}

type point struct {
	X, Y int32
}

type msg struct {
	Hwnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      point
	Private uint32
}
