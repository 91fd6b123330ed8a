package depgraph

import "github.com/RoaringBitmap/roaring"

// bitmapSet is a thin wrapper over roaring.Bitmap keyed by arena index,
// used for both edge sets and descendant/ancestor closures.
type bitmapSet struct {
	bm *roaring.Bitmap
}

func newBitmapSet() *bitmapSet { return &bitmapSet{bm: roaring.New()} }

func (s *bitmapSet) Add(i int)      { s.bm.Add(uint32(i)) }
func (s *bitmapSet) Contains(i int) bool { return s.bm.Contains(uint32(i)) }
func (s *bitmapSet) Len() int       { return int(s.bm.GetCardinality()) }
func (s *bitmapSet) IsEmpty() bool  { return s.bm.IsEmpty() }

// Or unions other into s in place.
func (s *bitmapSet) Or(other *bitmapSet) { s.bm.Or(other.bm) }

// Items returns the set's members in ascending order.
func (s *bitmapSet) Items() []int {
	out := make([]int, 0, s.Len())
	it := s.bm.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

func (s *bitmapSet) Clone() *bitmapSet { return &bitmapSet{bm: s.bm.Clone()} }
