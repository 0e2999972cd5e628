package domain

// DrillLevel identifies one of the three drill-down table views.
type DrillLevel int

const (
	LevelAllOrders DrillLevel = 1
	LevelSubOrders DrillLevel = 2
	LevelProducts  DrillLevel = 3
)

// DrillDown is the drill-down position as a tagged value. The constructors
// are the only way to build one, so a sub-order can never be set at level 1.
type DrillDown struct {
	level     DrillLevel
	baseOrder string
	subOrder  string

	// whether the base order had more than one sub-order when the user
	// descended; controls where drilling up from level 3 lands.
	hasSubOrders bool
}

// AllOrders is the initial, ungrouped-by-nothing view.
func AllOrders() DrillDown {
	return DrillDown{level: LevelAllOrders}
}

// SubOrders views the sub-orders of one base order.
func SubOrders(baseOrder string) DrillDown {
	return DrillDown{level: LevelSubOrders, baseOrder: baseOrder, hasSubOrders: true}
}

// Products views the product lines of one exact order number.
func Products(baseOrder, subOrder string, hasSubOrders bool) DrillDown {
	return DrillDown{
		level:        LevelProducts,
		baseOrder:    baseOrder,
		subOrder:     subOrder,
		hasSubOrders: hasSubOrders,
	}
}

func (d DrillDown) Level() DrillLevel  { return d.level }
func (d DrillDown) BaseOrder() string  { return d.baseOrder }
func (d DrillDown) SubOrder() string   { return d.subOrder }
func (d DrillDown) HasSubOrders() bool { return d.hasSubOrders }

// Up returns the state one level shallower. From level 3 it returns to
// level 2 only when the base order actually had sub-orders, otherwise
// straight to level 1.
func (d DrillDown) Up() DrillDown {
	switch d.level {
	case LevelProducts:
		if d.hasSubOrders {
			return SubOrders(d.baseOrder)
		}
		return AllOrders()
	case LevelSubOrders:
		return AllOrders()
	default:
		return AllOrders()
	}
}
