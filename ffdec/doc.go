// Package ffdec drives the JPEXS Free Flash Decompiler command line tool,
// which does the actual decompiling and exporting of swf containers.
//
// Commands are described by immutable values (Jar, Export) and executed by a
// Tool. The files an export leaves on disk are read back through Result.
//
//	tool := ffdec.New(paths.Find("ffdec.jar"))
//	res, err := tool.Extract(ffdec.NewExport().
//		Input("race3s.swf").
//		ItemTypes(ffdec.ItemSprite).
//		IDs(ffdec.Between(6, 13)))
package ffdec
