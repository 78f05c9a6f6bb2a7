// Package scene reads and writes scene files and turns them into bodies.
//
// A scene file is a JSON document, optionally wrapped in a zstd (".zst") or
// lz4 (".lz4") frame:
//
//	{
//	  "bodies": [
//	    {"position": [0, 1, 0], "shape": {"kind": "sphere", "radius": 0.5}},
//	    {"position": [2, 0, 0], "orientation": [0, 0, 0, 1],
//	     "shape": {"kind": "capsule", "radius": 0.25, "half_height": 1}}
//	  ]
//	}
//
// Hull and mesh vertex data is copied into the simulation's persistent arena
// by Apply, so it lives exactly as long as the simulation.
package scene
