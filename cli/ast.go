// Copyright (c) 2026, The OTNS Authors.
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
// 1. Redistributions of source code must retain the above copyright
//    notice, this list of conditions and the following disclaimer.
// 2. Redistributions in binary form must reproduce the above copyright
//    notice, this list of conditions and the following disclaimer in the
//    documentation and/or other materials provided with the distribution.
// 3. Neither the name of the copyright holder nor the
//    names of its contributors may be used to endorse or promote products
//    derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
// ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
// LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
// CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
// SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
// CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
// ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
// POSSIBILITY OF SUCH DAMAGE.

package cli

import (
	"strconv"

	"github.com/alecthomas/participle"
)

// noinspection GoStructTag
type Command struct {
	Add        *AddCmd        `  @@` //nolint
	Clear      *ClearCmd      `| @@` //nolint
	Compare    *CompareCmd    `| @@` //nolint
	Del        *DelCmd        `| @@` //nolint
	Dodag      *DodagCmd      `| @@` //nolint
	Exit       *ExitCmd       `| @@` //nolint
	Help       *HelpCmd       `| @@` //nolint
	Links      *LinksCmd      `| @@` //nolint
	Load       *LoadCmd       `| @@` //nolint
	LogLevel   *LogLevelCmd   `| @@` //nolint
	Move       *MoveCmd       `| @@` //nolint
	Neighbors  *NeighborsCmd  `| @@` //nolint
	Node       *NodeCmd       `| @@` //nolint
	Nodes      *NodesCmd      `| @@` //nolint
	Preset     *PresetCmd     `| @@` //nolint
	RadioModel *RadioModelCmd `| @@` //nolint
	Route      *RouteCmd      `| @@` //nolint
	Save       *SaveCmd       `| @@` //nolint
	Scatter    *ScatterCmd    `| @@` //nolint
	Stats      *StatsCmd      `| @@` //nolint
	Step       *StepCmd       `| @@` //nolint
	Update     *UpdateCmd     `| @@` //nolint
}

// NodeSelector selects a single node, an inclusive id range "a-b", or all nodes.
// noinspection GoStructTag
type NodeSelector struct {
	Id      int      `( @Int`         //nolint
	IdRange int      `  [ "-" @Int ]` //nolint
	All     *AllFlag `| @@ )`         //nolint
}

func (ns *NodeSelector) String() string {
	if ns.All != nil {
		return "all"
	}
	if ns.IdRange > 0 {
		return strconv.Itoa(ns.Id) + "-" + strconv.Itoa(ns.IdRange)
	}
	return strconv.Itoa(ns.Id)
}

// noinspection GoStructTag
type AllFlag struct {
	Dummy struct{} `"all"` //nolint
}

// noinspection GoStructTag
type AddNodeId struct {
	Val int `"id" @Int` //nolint
}

// noinspection GoStructTag
type RadioRangeFlag struct {
	Val int `"rr" @Int` //nolint
}

// noinspection GoStructTag
type NameFlag struct {
	Val string `"name" @(String|Ident)` //nolint
}

// noinspection GoStructTag
type AddCmd struct {
	Cmd        struct{}        `"add"`        //nolint
	Name       *NameFlag       `( @@`         //nolint
	X          *int            `| "x" @Int`   //nolint
	Y          *int            `| "y" @Int`   //nolint
	Id         *AddNodeId      `| @@`         //nolint
	RadioRange *RadioRangeFlag `| @@ )*`      //nolint
}

// noinspection GoStructTag
type ClearCmd struct {
	Cmd struct{} `"clear"` //nolint
}

// noinspection GoStructTag
type DelCmd struct {
	Cmd   struct{}       `"del"`   //nolint
	Nodes []NodeSelector `( @@ )+` //nolint
}

// noinspection GoStructTag
type MoveCmd struct {
	Cmd  struct{} `"move"` //nolint
	Node int      `@Int`   //nolint
	X    int      `@Int`   //nolint
	Y    int      `@Int`   //nolint
}

// noinspection GoStructTag
type UpdateCmd struct {
	Cmd        struct{}        `"update"`   //nolint
	Node       int             `@Int`       //nolint
	Name       *NameFlag       `( @@`       //nolint
	X          *int            `| "x" @Int` //nolint
	Y          *int            `| "y" @Int` //nolint
	RadioRange *RadioRangeFlag `| @@ )+`    //nolint
}

// noinspection GoStructTag
type StepCmd struct {
	Cmd   struct{} `"step"`                                                //nolint
	Node  int      `@Int`                                                  //nolint
	Dir   string   `@( "up" | "down" | "left" | "right" | "rr" ("+"|"-") )` //nolint
	Count *int     `[ @Int ]`                                              //nolint
}

// noinspection GoStructTag
type NodesCmd struct {
	Cmd struct{} `"nodes"` //nolint
}

// noinspection GoStructTag
type NodeCmd struct {
	Cmd  struct{} `"node"` //nolint
	Node int      `@Int`   //nolint
}

// noinspection GoStructTag
type NeighborsCmd struct {
	Cmd  struct{} `( "neighbors" | "nb" )` //nolint
	Node int      `@Int`                   //nolint
}

// noinspection GoStructTag
type LinksCmd struct {
	Cmd struct{} `"links"` //nolint
}

// noinspection GoStructTag
type StatsCmd struct {
	Cmd struct{} `"stats"` //nolint
}

// noinspection GoStructTag
type RouteCmd struct {
	Cmd  struct{} `"route"`            //nolint
	Src  int      `@Int`               //nolint
	Dst  int      `@Int`               //nolint
	Root *int     `[ "via" @Int ]`     //nolint
}

// noinspection GoStructTag
type CompareCmd struct {
	Cmd  struct{} `"compare"` //nolint
	Src  int      `@Int`      //nolint
	Dst  int      `@Int`      //nolint
	Root int      `@Int`      //nolint
}

// noinspection GoStructTag
type DodagCmd struct {
	Cmd  struct{} `"dodag"` //nolint
	Root int      `@Int`    //nolint
}

// noinspection GoStructTag
type RadioModelCmd struct {
	Cmd   struct{} `"radiomodel"` //nolint
	Model string   `[ @Ident ]`   //nolint
}

// noinspection GoStructTag
type PresetCmd struct {
	Cmd  struct{} `"preset"`                                //nolint
	Name string   `[ @( String | Ident ( "-" Ident )* ) ]` //nolint
}

// noinspection GoStructTag
type SaveCmd struct {
	Cmd  struct{} `"save"`  //nolint
	File string   `@String` //nolint
}

// noinspection GoStructTag
type LoadCmd struct {
	Cmd  struct{} `"load"`  //nolint
	File string   `@String` //nolint
}

// noinspection GoStructTag
type ScatterCmd struct {
	Cmd        struct{}        `"scatter"` //nolint
	Count      int             `@Int`      //nolint
	RadioRange *RadioRangeFlag `[ @@ ]`    //nolint
}

// noinspection GoStructTag
type LogLevelCmd struct {
	Cmd   struct{} `"log"`                                                                       //nolint
	Level string   `[@( "trace"|"debug"|"info"|"note"|"warn"|"error"|"off"|"default"|"D"|"I"|"W"|"E" )]` //nolint
}

// noinspection GoStructTag
type HelpCmd struct {
	Cmd       struct{} `"help"`       //nolint
	HelpTopic string   `[ (@Ident) ]` //nolint
}

// noinspection GoStructTag
type ExitCmd struct {
	Cmd struct{} `"exit"` //nolint
}

var (
	commandParser = participle.MustBuild(&Command{})
)

func ParseBytes(b []byte, cmd *Command) error {
	err := commandParser.ParseBytes(b, cmd)
	return err
}
