package repositories

import (
	"strings"
	"testing"
)

func TestParseSeed(t *testing.T) {
	data := []byte(`{
		"foodTrucks": [
			{"id": "t1", "truckName": "Taco Loco", "cuisine": "Mexican", "social": {"instagram": "@tacoloco"}},
			{"id": "t2", "truckName": "Curry Up"}
		],
		"schedules": [
			{"id": "s1", "truckId": "t1", "date": "2024-06-01", "startTime": "10:00", "endTime": "16:00", "location": "Union Square", "latitude": 40.73, "longitude": -73.99},
			{"id": "s2", "truckId": "t2", "date": "2024-06-01", "startTime": "07:00", "endTime": "09:00", "location": "Pier 17"}
		]
	}`)

	seed, err := ParseSeed(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seed.FoodTrucks) != 2 || len(seed.Schedules) != 2 {
		t.Fatalf("trucks=%d schedules=%d, want 2 and 2", len(seed.FoodTrucks), len(seed.Schedules))
	}
	if seed.FoodTrucks[0].Social.Instagram != "@tacoloco" {
		t.Fatalf("instagram = %q", seed.FoodTrucks[0].Social.Instagram)
	}
	if seed.Schedules[1].Latitude != nil {
		t.Fatalf("latitude should be nil when absent")
	}
}

func TestParseSeedRejectsInvalidRows(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{
			name: "unknown truck",
			data: `{"foodTrucks":[],"schedules":[{"id":"s1","truckId":"t9","date":"2024-06-01","startTime":"10:00","endTime":"11:00"}]}`,
			want: "unknown truckId",
		},
		{
			name: "bad date",
			data: `{"foodTrucks":[{"id":"t1","truckName":"A"}],"schedules":[{"id":"s1","truckId":"t1","date":"06/01/2024","startTime":"10:00","endTime":"11:00"}]}`,
			want: "invalid date",
		},
		{
			name: "missing name",
			data: `{"foodTrucks":[{"id":"t1"}]}`,
			want: "truckName cannot be empty",
		},
		{
			name: "not json",
			data: `[`,
			want: "decode json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSeed([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}
