package world

import (
	"fmt"
	"sort"
)

const ItemStone = "STONE"

type Item struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	Pos  Vec2   `json:"pos"`
	// CarriedBy names the worker holding this item; empty means resting on
	// the ground at Pos.
	CarriedBy string `json:"carried_by,omitempty"`
}

func (w *World) spawnItem(kind string, pos Vec2) *Item {
	seq := w.nextItemNum.Add(1)
	it := &Item{
		ID:   fmt.Sprintf("IT%06d", seq),
		Kind: kind,
		Pos:  pos,
	}
	w.items[it.ID] = it
	w.itemsAt[pos] = append(w.itemsAt[pos], it.ID)
	sort.Strings(w.itemsAt[pos])
	return it
}

// restingItemsAt returns the ids of items on the ground at pos, sorted.
func (w *World) restingItemsAt(pos Vec2) []string {
	return w.itemsAt[pos]
}

// pickUp moves an item from the ground into a worker's hands.
func (w *World) pickUp(wk *Worker, it *Item) {
	w.removeFromGround(it)
	it.CarriedBy = wk.ID
	wk.Carrying = it.ID
}

// putDown rests a carried item on the ground at pos.
func (w *World) putDown(wk *Worker, it *Item, pos Vec2) {
	it.CarriedBy = ""
	it.Pos = pos
	wk.Carrying = ""
	w.itemsAt[pos] = append(w.itemsAt[pos], it.ID)
	sort.Strings(w.itemsAt[pos])
}

func (w *World) removeFromGround(it *Item) {
	ids := w.itemsAt[it.Pos]
	for i, id := range ids {
		if id == it.ID {
			ids = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(w.itemsAt, it.Pos)
	} else {
		w.itemsAt[it.Pos] = ids
	}
}
