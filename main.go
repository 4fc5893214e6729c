package main

import (
	"wc_rakuten_tracking/control"
)

func main() {
	control.MainControl()
}
