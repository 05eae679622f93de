package types

// Printer writes plain text to the terminal.
type Printer interface {
	Print(a ...interface{})
	Printf(format string, a ...interface{})
	Println(a ...interface{})
}

// MessageLogger prints prefixed user-facing messages (info, warning, error, success).
// Diagnostics for developers go through internal/logger instead.
type MessageLogger interface {
	LogInfo(format string, a ...interface{})
	LogWarning(format string, a ...interface{})
	LogError(format string, a ...interface{})
	LogSuccess(format string, a ...interface{})
}

// ConsoleInterface é tudo o que os casos de uso precisam do terminal.
type ConsoleInterface interface {
	Printer
	MessageLogger

	// Status mostra um spinner até Stop.
	Status(message string) StatusHandle
	// ProgressWithTotal mostra uma barra com total passos.
	ProgressWithTotal(total int) ProgressHandle

	CreateTable() TableInterface
}

// StatusHandle controls a running spinner.
type StatusHandle interface {
	Update(message string)
	Stop()
}

// ProgressHandle controls a running progress bar.
type ProgressHandle interface {
	Increment()
	Stop()
}

// TableInterface builds a table row by row and renders it as text.
type TableInterface interface {
	AddColumn(name string, options ...interface{})
	AddRow(cells ...interface{})
	Render() string
}
