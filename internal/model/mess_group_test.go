package model

import "testing"

func TestValidLocation(t *testing.T) {
	for _, loc := range Locations {
		if !ValidLocation(loc) {
			t.Errorf("known location %q rejected", loc)
		}
	}
	for _, loc := range []string{"", "dhanmondi", "Kornai "} {
		if ValidLocation(loc) {
			t.Errorf("unknown location %q accepted", loc)
		}
	}
}

func TestValidCategory(t *testing.T) {
	if !ValidCategory("boys") || !ValidCategory("girls") {
		t.Error("known categories rejected")
	}
	if ValidCategory("mixed") || ValidCategory("") {
		t.Error("unknown category accepted")
	}
}

func TestValidRoomType(t *testing.T) {
	if !ValidRoomType(RoomSingle) || !ValidRoomType(RoomDouble) {
		t.Error("known room types rejected")
	}
	if ValidRoomType("triple") || ValidRoomType("") {
		t.Error("unknown room type accepted")
	}
}
