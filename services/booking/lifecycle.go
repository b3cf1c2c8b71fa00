package booking

import "appointo/models"

// Actor identifies who is driving a lifecycle transition.
type Actor string

const (
	ActorClient   Actor = "client"
	ActorProvider Actor = "provider"
	ActorSystem   Actor = "system"
)

type transition struct {
	from, to models.BookingStatus
}

// allowedTransitions is the exhaustive lifecycle table. Anything absent from
// it is an IllegalTransition; status is never mutated outside this table.
var allowedTransitions = map[transition]map[Actor]bool{
	{models.StatusPending, models.StatusApproved}:  {ActorProvider: true},
	{models.StatusPending, models.StatusRejected}:  {ActorProvider: true},
	{models.StatusPending, models.StatusSuggested}: {ActorSystem: true},

	// Auto-confirm timer fires as system.
	{models.StatusApproved, models.StatusConfirmed}:           {ActorClient: true, ActorSystem: true},
	{models.StatusApproved, models.StatusCancelledByProvider}: {ActorProvider: true},

	{models.StatusPending, models.StatusCancelledByClient}:   {ActorClient: true},
	{models.StatusApproved, models.StatusCancelledByClient}:  {ActorClient: true},
	{models.StatusConfirmed, models.StatusCancelledByClient}: {ActorClient: true},

	{models.StatusPending, models.StatusRescheduled}:   {ActorClient: true, ActorProvider: true},
	{models.StatusApproved, models.StatusRescheduled}:  {ActorClient: true, ActorProvider: true},
	{models.StatusConfirmed, models.StatusRescheduled}: {ActorClient: true, ActorProvider: true},
}

// CanTransition checks the lifecycle table for (from, to, actor).
func CanTransition(from, to models.BookingStatus, actor Actor) error {
	actors, ok := allowedTransitions[transition{from, to}]
	if !ok || !actors[actor] {
		return &IllegalTransition{From: from, To: to}
	}
	return nil
}
