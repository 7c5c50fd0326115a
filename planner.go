package fanfield

import (
	"sync"
)

// CandidateObserver receives every candidate evaluated by selector with its computed angle.
// It is the debug channel only: nothing it does affects the plan
type CandidateObserver func(loc Location, angle float64, accepted bool)

// Planner builds fan field plans. Zero value is not usable, call NewPlanner
type Planner struct {
	intersector        Intersector
	collisionPolicy    CollisionPolicy
	scanOrder          ScanOrder
	shortSideInversion bool
	observer           CandidateObserver
	verbose            bool

	// runs and their batch commit are a critical section against other runs of the same planner
	mu sync.Mutex
}

// NewPlanner returns planner with great-circle intersection test, overwriting angle table
// and nearest-first subfield scan unless options say otherwise
func NewPlanner(options ...func(*Planner)) *Planner {
	planner := &Planner{
		intersector:     GreatCircleIntersects,
		collisionPolicy: COLLISION_OVERWRITE,
		scanOrder:       SCAN_NEAREST_FIRST,
	}
	for _, option := range options {
		option(planner)
	}
	return planner
}

func WithIntersector(intersector Intersector) func(*Planner) {
	return func(planner *Planner) {
		if intersector != nil {
			planner.intersector = intersector
		}
	}
}

func WithCollisionPolicy(policy CollisionPolicy) func(*Planner) {
	return func(planner *Planner) {
		planner.collisionPolicy = policy
	}
}

func WithScanOrder(scanOrder ScanOrder) func(*Planner) {
	return func(planner *Planner) {
		planner.scanOrder = scanOrder
	}
}

// WithShortSideInversion makes inverted wedges compare rotated bearings against bounds rotated the same way,
// so only the short side of the circle between start and end is selected
func WithShortSideInversion(shortSide bool) func(*Planner) {
	return func(planner *Planner) {
		planner.shortSideInversion = shortSide
	}
}

func WithCandidateObserver(observer CandidateObserver) func(*Planner) {
	return func(planner *Planner) {
		planner.observer = observer
	}
}

func WithVerbose(verbose bool) func(*Planner) {
	return func(planner *Planner) {
		planner.verbose = verbose
	}
}
