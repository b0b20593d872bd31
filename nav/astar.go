package nav

import (
	"container/heap"
	"math"
)

type gridPos struct {
	x int
	y int
}

// astarPath searches an 8-connected grid. The start cell is always
// traversable so agents standing on an edge can still leave it. Diagonal
// moves may not cut blocked corners. The returned path includes start and
// goal; nil means no path within maxNodes expansions.
func astarPath(start, goal gridPos, walkable []bool, gridW, gridH, maxNodes int) []gridPos {
	if start.x < 0 || start.y < 0 || goal.x < 0 || goal.y < 0 {
		return nil
	}
	if start.x >= gridW || start.y >= gridH || goal.x >= gridW || goal.y >= gridH {
		return nil
	}
	startIdx := start.y*gridW + start.x
	goalIdx := goal.y*gridW + goal.x
	if !walkable[goalIdx] {
		return nil
	}
	passable := func(idx int) bool {
		return idx == startIdx || walkable[idx]
	}

	open := &openSet{}
	heap.Init(open)

	cameFrom := make([]int, gridW*gridH)
	for i := range cameFrom {
		cameFrom[i] = -1
	}
	gScore := make([]float64, gridW*gridH)
	for i := range gScore {
		gScore[i] = math.Inf(1)
	}
	closed := make([]bool, gridW*gridH)
	gScore[startIdx] = 0
	heap.Push(open, &openItem{pos: start, f: octile(start, goal), g: 0})

	expanded := 0
	for open.Len() > 0 {
		current := heap.Pop(open).(*openItem)
		cur := current.pos
		curIdx := cur.y*gridW + cur.x
		if closed[curIdx] {
			continue
		}
		closed[curIdx] = true

		if curIdx == goalIdx {
			return reconstructPath(cameFrom, gridW, startIdx, goalIdx)
		}
		expanded++
		if maxNodes > 0 && expanded > maxNodes {
			return nil
		}

		for _, d := range directions {
			n := gridPos{x: cur.x + d.x, y: cur.y + d.y}
			if n.x < 0 || n.y < 0 || n.x >= gridW || n.y >= gridH {
				continue
			}
			idx := n.y*gridW + n.x
			if closed[idx] || !passable(idx) {
				continue
			}
			step := 1.0
			if d.x != 0 && d.y != 0 {
				if !passable(cur.y*gridW+n.x) || !passable(n.y*gridW+cur.x) {
					continue
				}
				step = math.Sqrt2
			}
			tentativeG := gScore[curIdx] + step
			if tentativeG < gScore[idx] {
				cameFrom[idx] = curIdx
				gScore[idx] = tentativeG
				heap.Push(open, &openItem{pos: n, f: tentativeG + octile(n, goal), g: tentativeG})
			}
		}
	}
	return nil
}

var directions = [...]gridPos{
	{x: 1, y: 0}, {x: -1, y: 0}, {x: 0, y: 1}, {x: 0, y: -1},
	{x: 1, y: 1}, {x: 1, y: -1}, {x: -1, y: 1}, {x: -1, y: -1},
}

func reconstructPath(cameFrom []int, gridW int, startIdx, goalIdx int) []gridPos {
	if startIdx == goalIdx {
		return []gridPos{{x: startIdx % gridW, y: startIdx / gridW}}
	}
	if goalIdx < 0 || goalIdx >= len(cameFrom) || cameFrom[goalIdx] == -1 {
		return nil
	}

	path := make([]gridPos, 0, 32)
	cur := goalIdx
	for cur != -1 {
		path = append(path, gridPos{x: cur % gridW, y: cur / gridW})
		if cur == startIdx {
			break
		}
		cur = cameFrom[cur]
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func octile(a, b gridPos) float64 {
	dx := math.Abs(float64(a.x - b.x))
	dy := math.Abs(float64(a.y - b.y))
	return (dx + dy) + (math.Sqrt2-2)*math.Min(dx, dy)
}

type openItem struct {
	pos   gridPos
	f     float64
	g     float64
	index int
}

type openSet []*openItem

func (o openSet) Len() int           { return len(o) }
func (o openSet) Less(i, j int) bool { return o[i].f < o[j].f }
func (o openSet) Swap(i, j int) {
	o[i], o[j] = o[j], o[i]
	o[i].index = i
	o[j].index = j
}
func (o *openSet) Push(x any) {
	item := x.(*openItem)
	item.index = len(*o)
	*o = append(*o, item)
}
func (o *openSet) Pop() any {
	old := *o
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*o = old[:n-1]
	return item
}
