//
// Copyright (C) 2026 The weft authors. All rights reserved.
//
// weft is licensed under the Apache License Version 2.0.
//
//

// Command weft inspects and manages the snapshot stores used by weft graph
// executions: listing threads, dumping snapshots and deleting stale runs.
package main

func main() {
	Execute()
}
