package snippet

// DefaultScope is the cancellation scope for requests that did not
// declare one. Modal-scoped requests use their own scope so cancelling
// them never touches unrelated page updates.
const (
	DefaultScope = "default"
	ModalScope   = "modal"
)

// Options is the mutable per-request record that travels through every
// lifecycle hook. The engine fills in the basics from the triggering
// element; extensions write their own flags back into it during the
// interaction hook.
type Options struct {
	URL     string
	Element *Element

	// History controls whether a successful update creates a history
	// entry. Extensions may downgrade it, never re-enable it.
	History bool

	// Replace makes the update overwrite the current entry instead of
	// pushing a new one, used for the initial full-page load.
	Replace bool

	// Modal marks the request as modal-scoped: its result must only
	// affect the modal's interior content.
	Modal bool

	// ModalSuppress redirects a navigation out of the modal context
	// even while the modal is shown.
	ModalSuppress bool

	// ModalOptions is the opaque open-options bag of the modal
	// collaborator. The engine never inspects it.
	ModalOptions any

	// Restore marks options created for a popstate restore rather than
	// a direct interaction.
	Restore bool
}

// Scope returns the cancellation scope key for the request.
func (o *Options) Scope() string {
	if o.Modal {
		return ModalScope
	}
	return DefaultScope
}
