package utils

import (
	"fmt"
	"math/rand"
	"time"
)

var (
	adjectives = []string{
		"Slick", "Dusty", "Midnight", "Turbo", "Crooked", "Lucky", "Rusty", "Smoky", "Wily", "Greasy",
		"Shady", "Velvet", "Chrome", "Nitro", "Sly", "Gravel", "Neon", "Backroad", "Copper", "Diesel",
		"Harbor", "Uptown", "Downtown", "Coastal", "Border", "Crimson", "Golden", "Silver", "Phantom", "Emerald",
	}

	nouns = []string{
		"Runner", "Courier", "Bandit", "Drifter", "Wheelman", "Mule", "Fence", "Lookout", "Hauler", "Getaway",
		"Jackal", "Magpie", "Weasel", "Racer", "Roadie", "Hustler", "Pirate", "Rogue", "Nomad", "Outlaw",
		"Clutch", "Throttle", "Piston", "Gasket", "Spoiler", "Bumper", "Chassis", "Gearbox", "Muffler", "Axle",
	}
)

// GenerateCallsign creates a random callsign in the format "<Adjective> <Noun> <4 digit int>"
func GenerateCallsign() string {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	adj := adjectives[r.Intn(len(adjectives))]
	noun := nouns[r.Intn(len(nouns))]
	number := r.Intn(9000) + 1000 // Ensures a 4-digit number (1000-9999)

	return fmt.Sprintf("%s %s %d", adj, noun, number)
}
