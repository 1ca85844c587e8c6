package engine

// Disk geometry shared by all simulations: particles live between an inner
// spawn ring and an outer boundary.
const (
	innerRadius = 0.115
	outerRadius = 0.99
)

// Inactive slots are parked here with size zero. They stay in the buffers so
// slot indices remain stable for the fixed-size render buffers.
const (
	sentinelX = 0.0
	sentinelY = 0.0
	sentinelZ = -100.0
)

// particle is one pooled slot. Slots are allocated once and reset in place;
// nothing in the per-frame path allocates.
type particle struct {
	x, y, z float64
	vx, vy  float64
	life    float64
	maxLife float64
	size    float64
	seed    float64
	angle   float64
	active  bool
}

// pool is a fixed-capacity particle arena plus the parallel render buffers
// packed from it. Fire and water own one each; they never share.
type pool struct {
	slots []particle
	cloud PointCloud
}

func newPool(capacity int) *pool {
	p := &pool{
		slots: make([]particle, capacity),
		cloud: PointCloud{
			Positions: make([]float64, capacity*3),
			Colors:    make([]float64, capacity*3),
			Sizes:     make([]float64, capacity),
		},
	}
	for i := range p.slots {
		p.writeSentinel(i)
	}
	return p
}

func (p *pool) capacity() int { return len(p.slots) }

// activeCount reports how many slots are currently live.
func (p *pool) activeCount() int {
	n := 0
	for i := range p.slots {
		if p.slots[i].active {
			n++
		}
	}
	return n
}

// deactivate parks a slot and writes its sentinel into the render buffers.
func (p *pool) deactivate(i int) {
	p.slots[i].active = false
	p.writeSentinel(i)
}

// trim deactivates every slot at or beyond the permitted active count, so
// the budget cap holds no matter how it moved this frame.
func (p *pool) trim(activeBudget int) {
	for i := activeBudget; i < len(p.slots); i++ {
		if p.slots[i].active {
			p.deactivate(i)
		}
	}
}

func (p *pool) writeSentinel(i int) {
	p.cloud.Positions[i*3] = sentinelX
	p.cloud.Positions[i*3+1] = sentinelY
	p.cloud.Positions[i*3+2] = sentinelZ
	p.cloud.Colors[i*3] = 0
	p.cloud.Colors[i*3+1] = 0
	p.cloud.Colors[i*3+2] = 0
	p.cloud.Sizes[i] = 0
}

// write packs one live slot into the render buffers.
func (p *pool) write(i int, x, y, z, r, g, b, size float64) {
	p.cloud.Positions[i*3] = x
	p.cloud.Positions[i*3+1] = y
	p.cloud.Positions[i*3+2] = z
	p.cloud.Colors[i*3] = r
	p.cloud.Colors[i*3+1] = g
	p.cloud.Colors[i*3+2] = b
	if size < 0 {
		size = 0
	}
	p.cloud.Sizes[i] = size
}
