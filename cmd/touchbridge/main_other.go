//go:build !linux

package main

import "log"

func main() {
	log.Fatal("touchbridge: i2c-dev is only available on Linux")
}
