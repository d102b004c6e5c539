package main

import (
	"os"

	"k8s.io/klog/v2"
)

func main() {
	defer klog.Flush()

	if err := newRootCommand().Execute(); err != nil {
		klog.Flush()
		os.Exit(1)
	}
}
