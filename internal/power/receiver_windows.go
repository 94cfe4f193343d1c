//go:build windows

package power

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/windows"

	"github.com/eliteGoblin/lidlock/internal/config"
	"github.com/eliteGoblin/lidlock/internal/domain"
	"github.com/eliteGoblin/lidlock/internal/policy"
)

type windowsPlatform struct {
	logger *zap.Logger
}

// NewPlatform returns the Win32 binding.
func NewPlatform(cfg config.Config, logger *zap.Logger) (Platform, error) {
	return &windowsPlatform{logger: logger}, nil
}

// IsRemote asks GetSystemMetrics(SM_REMOTESESSION) on every call.
func (p *windowsPlatform) IsRemote() bool {
	r, _, _ := procGetSystemMetrics.Call(smRemoteSession)
	return r != 0
}

// Lock calls LockWorkStation.
func (p *windowsPlatform) Lock() bool {
	r, _, _ := procLockWorkStation.Call()
	return r != 0
}

func (p *windowsPlatform) Open(classes *policy.Registry, handler domain.PowerEventHandler) (domain.Receiver, error) {
	return newWindowReceiver(classes.GetAll(), NewRouter(handler, p.logger), p.logger)
}

func (p *windowsPlatform) Close() error {
	return nil
}

// windowReceiver is a message-only window subscribed to power settings.
type windowReceiver struct {
	hwnd        uintptr
	threadID    uint32
	instance    windows.Handle
	className   *uint16
	router      *Router
	logger      *zap.Logger
	unsubscribe func() error
}

func newWindowReceiver(classes []domain.NotificationClass, router *Router, logger *zap.Logger) (*windowReceiver, error) {
	logger.Info("Creating message-only window")

	var instance windows.Handle
	if err := windows.GetModuleHandleEx(0, nil, &instance); err != nil {
		return nil, fmt.Errorf("failed to get module handle: %w", err)
	}

	className, err := windows.UTF16PtrFromString(config.AppName)
	if err != nil {
		return nil, err
	}

	r := &windowReceiver{
		instance:  instance,
		className: className,
		router:    router,
		logger:    logger,
	}

	logger.Info("Registering window class")
	wc := wndClassEx{
		WndProc:   windows.NewCallback(r.wndProc),
		Instance:  instance,
		ClassName: className,
	}
	wc.Size = uint32(unsafe.Sizeof(wc))
	if atom, _, err := procRegisterClassExW.Call(uintptr(unsafe.Pointer(&wc))); atom == 0 {
		return nil, fmt.Errorf("failed to register window class: %w", err)
	}

	logger.Info("Creating window")
	hwnd, _, err := procCreateWindowExW.Call(
		0,
		uintptr(unsafe.Pointer(className)),
		0,
		0,
		cwUseDefault, cwUseDefault, cwUseDefault, cwUseDefault,
		hwndMessage,
		0,
		uintptr(instance),
		0,
	)
	if hwnd == 0 {
		_ = r.unregisterClass()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	r.hwnd = hwnd
	r.threadID = windows.GetCurrentThreadId()

	unsubscribe, err := subscribeAll(classes, r.registerNotification, logger)
	if err != nil {
		_ = r.destroyWindow()
		_ = r.unregisterClass()
		return nil, err
	}
	r.unsubscribe = unsubscribe

	return r, nil
}

// registerNotification subscribes the window with DEVICE_NOTIFY_WINDOW_HANDLE.
func (r *windowReceiver) registerNotification(class domain.NotificationClass) (func() error, error) {
	guid := windows.GUID(class.GUID)
	h, _, err := procRegisterPowerSettingNotification.Call(
		r.hwnd,
		uintptr(unsafe.Pointer(&guid)),
		deviceNotifyWindowHandle,
	)
	if h == 0 {
		return nil, fmt.Errorf("RegisterPowerSettingNotification: %w", err)
	}

	return func() error {
		if ok, _, err := procUnregisterPowerSettingNotification.Call(h); ok == 0 {
			return fmt.Errorf("UnregisterPowerSettingNotification %s: %w", class.ID, err)
		}
		return nil
	}, nil
}

// Run pumps the thread's message queue until WM_QUIT or ctx is canceled.
func (r *windowReceiver) Run(ctx context.Context) error {
	r.logger.Info("Starting message loop")

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_, _, _ = procPostThreadMessageW.Call(uintptr(r.threadID), wmQuit, 0, 0)
		case <-done:
		}
	}()

	var m msg
	for {
		ret, _, err := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		switch int32(ret) {
		case -1:
			return fmt.Errorf("GetMessage failed: %w", err)
		case 0:
			r.logger.Info("Message loop finished")
			return nil
		}
		_, _, _ = procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		_, _, _ = procDispatchMessageW.Call(uintptr(unsafe.Pointer(&m)))
	}
}

func (r *windowReceiver) Close() error {
	var err error
	if r.unsubscribe != nil {
		err = errors.Join(err, r.unsubscribe())
		r.unsubscribe = nil
	}
	err = errors.Join(err, r.destroyWindow())
	err = errors.Join(err, r.unregisterClass())
	return err
}

func (r *windowReceiver) destroyWindow() error {
	if r.hwnd == 0 {
		return nil
	}
	ok, _, err := procDestroyWindow.Call(r.hwnd)
	r.hwnd = 0
	if ok == 0 {
		return fmt.Errorf("failed to destroy window: %w", err)
	}
	return nil
}

func (r *windowReceiver) unregisterClass() error {
	if r.className == nil {
		return nil
	}
	ok, _, err := procUnregisterClassW.Call(uintptr(unsafe.Pointer(r.className)), uintptr(r.instance))
	r.className = nil
	if ok == 0 {
		return fmt.Errorf("failed to unregister window class: %w", err)
	}
	return nil
}

// wndProc is the window procedure registered with the class.
func (r *windowReceiver) wndProc(hwnd, message, wparam, lparam uintptr) uintptr {
	m := domain.Message{ID: uint32(message), WParam: wparam, LParam: lparam}
	if m.ID == WMPowerBroadcast && wparam == PBTPowerSettingChange && lparam != 0 {
		m.Payload = settingPayload(lparam)
	}

	if result, handled := r.router.Route(m); handled {
		return result
	}

	ret, _, _ := procDefWindowProcW.Call(hwnd, message, wparam, lparam)
	return ret
}

// settingPayload views the POWERBROADCAST_SETTING at lparam as bytes.
// The OS owns that memory and keeps it valid only for the duration of the
// window procedure call; the slice must not be retained past Route.
func settingPayload(lparam uintptr) []byte {
	header := unsafe.Slice((*byte)(unsafe.Pointer(lparam)), SettingHeaderSize)
	dataLen := binary.LittleEndian.Uint32(header[settingGUIDSize:])
	return unsafe.Slice((*byte)(unsafe.Pointer(lparam)), SettingHeaderSize+int(dataLen))
}

// Ensure windowReceiver implements domain.Receiver.
var _ domain.Receiver = (*windowReceiver)(nil)
