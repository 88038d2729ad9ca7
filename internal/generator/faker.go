package generator

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

const alphanumeric = "abcdefghijklmnopqrstuvwxyz0123456789"

var (
	emailDomains = []string{"example.com", "test.com", "demo.org", "sample.net", "mock.io"}
	departments  = []string{"Engineering", "Sales", "Marketing", "Operations", "Finance"}
	firstNames   = []string{"Taro", "Hanako", "Ichiro", "Yuki", "Sakura", "Kenji", "Aiko", "Hiroshi"}
	lastNames    = []string{"Yamada", "Tanaka", "Suzuki", "Watanabe", "Ito", "Nakamura", "Kobayashi", "Kato"}

	categoryNames = []string{
		"Electronics", "Computers", "Books", "Home & Garden", "Clothing", "Sports",
		"Toys", "Automotive", "Health", "Beauty", "Food", "Beverages",
		"Furniture", "Appliances", "Tools", "Office", "Music", "Movies",
		"Games", "Software", "Hardware", "Accessories", "Parts", "Services",
	}

	productNames = []string{
		"Laptop", "Smartphone", "Tablet", "Monitor", "Keyboard", "Mouse",
		"Headphones", "Speaker", "Camera", "Watch", "Charger", "Cable",
		"Book", "Notebook", "Pen", "Desk", "Chair", "Lamp",
		"Bag", "Wallet", "Shoes", "Shirt", "Jacket", "Hat",
	}
)

// faker produces random field values from a worker-owned source. It is
// created per call and never shared between goroutines.
type faker struct {
	rand *rand.Rand
}

func newFaker(rng *rand.Rand) faker {
	return faker{rand: rng}
}

// intBetween returns a uniform integer in [lo, hi].
func (f faker) intBetween(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + f.rand.Intn(hi-lo+1)
}

// floatBetween returns a uniform float in [lo, hi).
func (f faker) floatBetween(lo, hi float64) float64 {
	return lo + f.rand.Float64()*(hi-lo)
}

func (f faker) chance(p float64) bool {
	return f.rand.Float64() < p
}

func (f faker) bool() bool {
	return f.rand.Intn(2) == 1
}

// weighted returns an index drawn with the given relative weights.
func (f faker) weighted(weights []float64) int {
	var total float64
	for _, w := range weights {
		total += w
	}
	r := f.rand.Float64() * total
	for i, w := range weights {
		if r < w {
			return i
		}
		r -= w
	}
	return len(weights) - 1
}

func pick[T any](f faker, items []T) T {
	return items[f.rand.Intn(len(items))]
}

func (f faker) randomString(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(alphanumeric[f.rand.Intn(len(alphanumeric))])
	}
	return b.String()
}

func (f faker) email(username string) string {
	return fmt.Sprintf("%s@%s", username, pick(f, emailDomains))
}

func (f faker) passwordHash() string {
	return "$2a$10$" + f.randomString(53)
}

func (f faker) phone() string {
	return fmt.Sprintf("090%d", f.intBetween(10000000, 99999999))
}

func (f faker) ipv4() string {
	return fmt.Sprintf("%d.%d.%d.%d", f.intBetween(1, 255), f.intBetween(1, 255), f.intBetween(1, 255), f.intBetween(1, 255))
}

func (f faker) userAgent() string {
	return "Mozilla/5.0 " + f.randomString(20)
}

// daysAgo returns now minus a whole number of days drawn from [lo, hi].
func (f faker) daysAgo(now time.Time, lo, hi int) time.Time {
	return now.AddDate(0, 0, -f.intBetween(lo, hi))
}
