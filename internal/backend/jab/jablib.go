// Package jab implements the Element-tree backend over Oracle's Java Access
// Bridge, bound via syscall against the WindowsAccessBridge DLL rather than
// a cgo header, the same plain-stdcall style tailscale/win uses for other
// native Windows APIs.
package jab

import (
	"syscall"
	"unsafe"

	derrors "github.com/echo-go/uiauto/internal/core/errors"
)

// AccessibleContext is the native (vmID, accessibleContext) pair every JAB
// object reference is addressed by. A context is only valid for the
// lifetime of the owning Java VM and must be released via
// ReleaseJavaObject when no longer needed.
type AccessibleContext struct {
	VMID    int32
	Context uintptr
}

// Library binds the subset of the WindowsAccessBridge-64.dll API this
// backend needs: window discovery, context navigation, and property
// queries. A DLL that fails to load leaves Loaded() false rather than
// returning an error, so a machine without Java installed still runs the
// UIA/CV backends. Procedures are bound lazily: a procedure missing from a
// DLL that did load is only detected when it is first called.
type Library struct {
	dll *syscall.LazyDLL

	procWindowsRun                  *syscall.LazyProc
	procIsJavaWindow                *syscall.LazyProc
	procGetAccessibleContextFromHWND *syscall.LazyProc
	procReleaseJavaObject            *syscall.LazyProc
	procGetAccessibleContextInfo     *syscall.LazyProc
	procGetAccessibleChildFromContext *syscall.LazyProc
	procGetAccessibleParentFromContext *syscall.LazyProc
	procGetAccessibleActions        *syscall.LazyProc
	procDoAccessibleActions         *syscall.LazyProc
	procSetTextContents             *syscall.LazyProc

	loaded bool
}

// DefaultDLLName is the standard install location of the 64-bit Access
// Bridge bridge DLL on a JRE with Java Access Bridge enabled.
const DefaultDLLName = "WindowsAccessBridge-64.dll"

// Load binds every procedure in dllPath, defaulting to DefaultDLLName.
func Load(dllPath string) (*Library, error) {
	if dllPath == "" {
		dllPath = DefaultDLLName
	}

	dll := syscall.NewLazyDLL(dllPath)
	if err := dll.Load(); err != nil {
		return &Library{dll: dll, loaded: false}, nil //nolint:nilerr // BackendMissing is reported via Loaded(), not an error
	}

	lib := &Library{
		dll:    dll,
		loaded: true,

		procWindowsRun:                     dll.NewProc("Windows_run"),
		procIsJavaWindow:                   dll.NewProc("isJavaWindow"),
		procGetAccessibleContextFromHWND:   dll.NewProc("getAccessibleContextFromHWND"),
		procReleaseJavaObject:              dll.NewProc("releaseJavaObject"),
		procGetAccessibleContextInfo:       dll.NewProc("getAccessibleContextInfo"),
		procGetAccessibleChildFromContext:  dll.NewProc("getAccessibleChildFromContext"),
		procGetAccessibleParentFromContext: dll.NewProc("getAccessibleParentFromContext"),
		procGetAccessibleActions:           dll.NewProc("getAccessibleActions"),
		procDoAccessibleActions:            dll.NewProc("doAccessibleActions"),
		procSetTextContents:                dll.NewProc("setTextContents"),
	}

	// Windows_run starts the bridge's internal message pump; it must be
	// called exactly once per process before any other entry point works.
	_, _, _ = lib.procWindowsRun.Call() //nolint:errcheck // Windows_run has no documented failure signal

	return lib, nil
}

// Loaded reports whether the DLL bound successfully.
func (l *Library) Loaded() bool { return l.loaded }

// IsJavaWindow reports whether hwnd belongs to a Java Access Bridge-enabled process.
func (l *Library) IsJavaWindow(hwnd uintptr) bool {
	if !l.loaded {
		return false
	}

	ret, _, _ := l.procIsJavaWindow.Call(hwnd)

	return ret != 0
}

// AccessibleContextFromHWND resolves the root accessible context of a Java
// top-level window.
func (l *Library) AccessibleContextFromHWND(hwnd uintptr) (AccessibleContext, bool) {
	if !l.loaded {
		return AccessibleContext{}, false
	}

	var vmID int32

	var ac uintptr

	ret, _, _ := l.procGetAccessibleContextFromHWND.Call(
		hwnd,
		uintptrPtr(&vmID),
		uintptrPtr(&ac),
	)

	if ret == 0 {
		return AccessibleContext{}, false
	}

	return AccessibleContext{VMID: vmID, Context: ac}, true
}

// ReleaseJavaObject releases a native (vmID, context) reference. It is safe
// to call with a zero Context.
func (l *Library) ReleaseJavaObject(ctx AccessibleContext) {
	if !l.loaded || ctx.Context == 0 {
		return
	}

	_, _, _ = l.procReleaseJavaObject.Call(uintptr(ctx.VMID), ctx.Context) //nolint:errcheck // best-effort native cleanup
}

// errBackendMissing builds a BACKEND_MISSING error for a bridge DLL that
// failed to load. It currently has no callers; the backend's call sites
// build their own BACKEND_MISSING errors.
func (l *Library) errBackendMissing() error {
	return derrors.New(derrors.CodeBackendMissing, "Java Access Bridge DLL not loaded")
}

func uintptrPtr[T any](v *T) uintptr {
	return uintptr(unsafe.Pointer(v))
}
