package common

// NodeQueue is a binary min-heap of node handles. A handle indexes a dense node array
// owned by the caller, which stores the handle's heap slot through setIndex; Update and
// Remove take that slot so a key change is repaired in O(log n).
type NodeQueue struct {
	data     []int32
	less     func(a, b int32) bool
	setIndex func(handle int32, index int32)
}

func NewNodeQueue(less func(a, b int32) bool, setIndex func(handle, index int32)) *NodeQueue {
	return &NodeQueue{less: less, setIndex: setIndex}
}

// Reset empties the queue, detaching every queued handle.
func (q *NodeQueue) Reset() {
	for _, h := range q.data {
		q.setIndex(h, -1)
	}
	q.data = q.data[:0]
}

func (q *NodeQueue) Len() int    { return len(q.data) }
func (q *NodeQueue) Empty() bool { return len(q.data) == 0 }

// 查看堆顶
func (q *NodeQueue) Peek() int32 { return q.data[0] }

// Offer inserts a handle.
func (q *NodeQueue) Offer(h int32) {
	q.data = append(q.data, h)
	i := int32(len(q.data) - 1)
	q.setIndex(h, i)
	q.up(i)
}

// Poll removes and returns the smallest handle.
func (q *NodeQueue) Poll() int32 {
	return q.Remove(0)
}

// Update restores heap order after the key of the handle at index changed.
func (q *NodeQueue) Update(index int32) {
	if index < 0 || int(index) >= len(q.data) {
		return
	}
	if !q.down(index) {
		q.up(index)
	}
}

// Remove deletes the handle at index and returns it.
func (q *NodeQueue) Remove(index int32) int32 {
	n := int32(len(q.data) - 1)
	h := q.data[index]
	if n != index {
		q.swap(index, n)
		q.data = q.data[:n]
		if !q.down(index) {
			q.up(index)
		}
	} else {
		q.data = q.data[:n]
	}
	q.setIndex(h, -1)
	return h
}

func (q *NodeQueue) swap(i, j int32) {
	q.data[i], q.data[j] = q.data[j], q.data[i]
	q.setIndex(q.data[i], i)
	q.setIndex(q.data[j], j)
}

func (q *NodeQueue) up(i int32) {
	for i > 0 {
		parent := (i - 1) / 2
		if !q.less(q.data[i], q.data[parent]) {
			break
		}
		q.swap(i, parent)
		i = parent
	}
}

func (q *NodeQueue) down(i0 int32) bool {
	i := i0
	n := int32(len(q.data))
	for {
		left := 2*i + 1
		if left >= n || left < 0 {
			break
		}
		smallest := left
		if right := left + 1; right < n && q.less(q.data[right], q.data[left]) {
			smallest = right
		}
		if !q.less(q.data[smallest], q.data[i]) {
			break
		}
		q.swap(i, smallest)
		i = smallest
	}
	return i > i0
}
