// Package io reads and writes flow graphs.
//
// # Overview
//
// A graph file holds every module of a [flow.Graph]:
//
//	{
//	  "modules": {
//	    "Home": {
//	      "nodes": {
//	        "1": {
//	          "id": 1, "name": "trigger", "data": {}, "class": "",
//	          "content": "", "contentKind": "plain",
//	          "inputs": {},
//	          "outputs": {"output_1": {"connections": [
//	            {"node": 2, "port": "input_1", "points": [{"x": 150, "y": 80}]}
//	          ]}},
//	          "x": 0, "y": 0
//	        },
//	        "2": { ... }
//	      }
//	    }
//	  }
//	}
//
// Integer node ids are written as JSON numbers and UUIDs as strings. Ports
// are keyed by name and must be contiguous from 1 on each side.
//
// # Formats
//
// Two encodings are supported: indented JSON ([FormatJSON]) and MessagePack
// ([FormatMsgpack]) with the same field names. [Write] and [Read] work on
// any stream; [ExportFile] and [ImportFile] pick the format from the file
// extension (.json, .msgpack, .mpk) and compress with zstd when the name
// ends in .zst:
//
//	err := io.ExportFile(store.ExportAll(), "flow.msgpack.zst")
//	g, err := io.ImportFile("flow.msgpack.zst")
//	err = store.ImportAll(g)
//
// Decoding does not check graph invariants; [flow.Store.ImportAll] does
// and rejects corrupt graphs as a whole.
package io
