package capi

// Refcounted record types. Each places BaseRefCounted first and registers for
// the layout contract by implementing RefCounted; the slot fields carry raw C
// function pointers in declaration order of the corresponding cef_*_t.

// CompletionCallback mirrors cef_completion_callback_t. The foreign side
// invokes OnComplete exactly once when an asynchronous operation finishes.
type CompletionCallback struct {
	Base BaseRefCounted

	// OnComplete: void (*)(cef_completion_callback_t* self)
	OnComplete uintptr
}

func (c *CompletionCallback) BaseRef() *BaseRefCounted { return &c.Base }

// StringVisitor mirrors cef_string_visitor_t, used to receive string values
// asynchronously.
type StringVisitor struct {
	Base BaseRefCounted

	// Visit: void (*)(cef_string_visitor_t* self, const cef_string_t* string)
	Visit uintptr
}

func (v *StringVisitor) BaseRef() *BaseRefCounted { return &v.Base }

// Task mirrors cef_task_t, a unit of work posted for execution on a CEF
// thread.
type Task struct {
	Base BaseRefCounted

	// Execute: void (*)(cef_task_t* self)
	Execute uintptr
}

func (t *Task) BaseRef() *BaseRefCounted { return &t.Base }

// NavigationEntryVisitor mirrors cef_navigation_entry_visitor_t.
type NavigationEntryVisitor struct {
	Base BaseRefCounted

	// Visit: int (*)(self, cef_navigation_entry_t* entry, int current,
	// int index, int total). Returning zero stops visitation.
	Visit uintptr
}

func (v *NavigationEntryVisitor) BaseRef() *BaseRefCounted { return &v.Base }

// Extension mirrors the leading slots of cef_extension_t. Later ABI versions
// append slots; absent (zero) slots mean the operation is unsupported on the
// loaded build.
type Extension struct {
	Base BaseRefCounted

	// GetIdentifier: cef_string_userfree_t (*)(self)
	GetIdentifier uintptr
	// GetPath: cef_string_userfree_t (*)(self)
	GetPath uintptr
	// GetManifest: cef_dictionary_value_t* (*)(self)
	GetManifest uintptr
	// IsSame: int (*)(self, cef_extension_t* that)
	IsSame uintptr
	// GetHandler: cef_extension_handler_t* (*)(self)
	GetHandler uintptr
	// GetLoaderContext: cef_request_context_t* (*)(self)
	GetLoaderContext uintptr
	// IsLoaded: int (*)(self)
	IsLoaded uintptr
	// Unload: void (*)(self)
	Unload uintptr
}

func (e *Extension) BaseRef() *BaseRefCounted { return &e.Base }

// BrowserHost mirrors the leading slots of cef_browser_host_t. Only the
// slots cefgo exposes typed methods for are declared; the struct is always
// received by pointer from libcef, never allocated by cefgo, so trailing
// slots may simply be absent from this declaration.
type BrowserHost struct {
	Base BaseRefCounted

	// GetBrowser: cef_browser_t* (*)(self)
	GetBrowser uintptr
	// CloseBrowser: void (*)(self, int force_close)
	CloseBrowser uintptr
	// TryCloseBrowser: int (*)(self)
	TryCloseBrowser uintptr
	// SetFocus: void (*)(self, int focus)
	SetFocus uintptr
	// GetWindowHandle: cef_window_handle_t (*)(self)
	GetWindowHandle uintptr
	// GetOpenerWindowHandle: cef_window_handle_t (*)(self)
	GetOpenerWindowHandle uintptr
	// HasView: int (*)(self)
	HasView uintptr
}

func (b *BrowserHost) BaseRef() *BaseRefCounted { return &b.Base }
