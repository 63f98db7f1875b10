package swfxml

import (
	"fmt"
	"strings"
)

func Example() {
	report := strings.NewReader(`<?xml version="1.0" encoding="UTF-8"?>
<swf>
  <tags>
    <item type="DefineShapeTag" shapeId="1">
      <shapeBounds type="RECT" Xmax="200" Xmin="-200" Ymax="100" Ymin="-100"/>
    </item>
    <item type="DefineSpriteTag" frameCount="1" spriteId="2">
      <subTags>
        <item type="PlaceObject2Tag" characterId="1" depth="1"/>
        <item type="ShowFrameTag"/>
      </subTags>
    </item>
    <item type="ExportAssetsTag">
      <tags><item>2</item></tags>
      <names><item>logo</item></names>
    </item>
  </tags>
</swf>`)
	idx, err := Parse(report)
	if err != nil {
		panic(err)
	}

	id := idx.ExportedAssets()["logo"]
	ps, _ := idx.Placements(id)
	r, _ := idx.Shape(ps[0].CharacterID)
	fmt.Println(id, idx.AssetTypes()[id], r)
	// Output:
	// 2 sprite [x -200..200, y -100..100]
}
