package actor

// Definition bundles everything an instantiator needs to construct one
// actor: a type name for diagnostics, an optional pre-assigned address,
// a Producer, and the mailbox configuration the cell should use.
//
// Address is normally left zero; Stage fills in a fresh time-sortable
// address at actor_for time. Supplying one is only useful for actors
// that must be reachable at a well-known, caller-chosen identity.
type Definition struct {
	TypeName string
	Address  Address
	Produce  Producer
	Mailbox  MailboxConfig

	// SupervisorKey names a supervisor registered with the owning Stage
	// via Stage.RegisterSupervisor. Empty means "use the Stage's default
	// supervisor".
	SupervisorKey string

	// Strategy overrides the default restart-intensity strategy for this
	// cell. The zero value means "use the Stage's default strategy".
	Strategy *SupervisionStrategy
}

// NewDefinition builds a Definition with an unbounded mailbox and no
// pre-assigned address — the common case.
func NewDefinition(typeName string, produce Producer) Definition {
	return Definition{
		TypeName: typeName,
		Produce:  produce,
		Mailbox:  DefaultMailboxConfig(),
	}
}
