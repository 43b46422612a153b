package shipment

// Snapshot is everything a scan cycle knows about one active shipment.
//
// ContainersErr and MilestonesErr carry a failed sub-query so that only the
// detector depending on that data reports a failure; the rest of the battery
// still evaluates the shipment.
type Snapshot struct {
	Shipment          Shipment
	ReeferContainers  []Container
	PendingMilestones []Milestone
	ContainersErr     error
	MilestonesErr     error
}
