// Package emoji provides the symbols used in vertexscout terminal output.
package emoji

// Status symbols for sweep reports.
const (
	// Available marks a model that answered a probe.
	Available = "✅"

	// NeedsEula marks a model whose publisher terms have not been accepted.
	NeedsEula = "📝"

	// NeedsPermission marks a model the caller is not allowed to invoke.
	NeedsPermission = "🔐"

	// Unknown is used for statuses that never reach a report.
	Unknown = "❓"
)

// General purpose symbols.
const (
	Success = "✓"
	Error   = "✗"
	Warning = "⚠️"
	Info    = "ℹ️"
	Search  = "🔍"
	Globe   = "🌐"
	Hint    = "💡"
)
