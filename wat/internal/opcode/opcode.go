package opcode

type ImmKind int

const (
	ImmNone   ImmKind = iota
	ImmLabel          // br, br_if
	ImmFunc           // call
	ImmLocal          // local.get/set/tee
	ImmGlobal         // global.get/set
	ImmI32            // i32.const
)

type Info struct {
	Opcode   byte
	Operands int // stack operands consumed in folded form
	ImmType  ImmKind
}

func Lookup(name string) (Info, bool) {
	info, ok := table[name]
	return info, ok
}

// Names returns every instruction name in the table. Block instructions are
// handled by the parser and are not included.
func Names() []string {
	names := make([]string, 0, len(table))
	for n := range table {
		names = append(names, n)
	}
	return names
}

var table = map[string]Info{
	// Control
	"unreachable": {0x00, 0, ImmNone},
	"nop":         {0x01, 0, ImmNone},
	"br":          {0x0C, 0, ImmLabel},
	"br_if":       {0x0D, 1, ImmLabel},
	"return":      {0x0F, 0, ImmNone},
	"call":        {0x10, 0, ImmFunc},

	// Parametric
	"drop":   {0x1A, 1, ImmNone},
	"select": {0x1B, 3, ImmNone},

	// Variables
	"local.get":  {0x20, 0, ImmLocal},
	"local.set":  {0x21, 1, ImmLocal},
	"local.tee":  {0x22, 1, ImmLocal},
	"global.get": {0x23, 0, ImmGlobal},
	"global.set": {0x24, 1, ImmGlobal},

	// Constants
	"i32.const": {0x41, 0, ImmI32},

	// i32 comparison
	"i32.eqz":  {0x45, 1, ImmNone},
	"i32.eq":   {0x46, 2, ImmNone},
	"i32.ne":   {0x47, 2, ImmNone},
	"i32.lt_s": {0x48, 2, ImmNone},
	"i32.lt_u": {0x49, 2, ImmNone},
	"i32.gt_s": {0x4A, 2, ImmNone},
	"i32.gt_u": {0x4B, 2, ImmNone},
	"i32.le_s": {0x4C, 2, ImmNone},
	"i32.le_u": {0x4D, 2, ImmNone},
	"i32.ge_s": {0x4E, 2, ImmNone},
	"i32.ge_u": {0x4F, 2, ImmNone},

	// i32 arithmetic
	"i32.clz":    {0x67, 1, ImmNone},
	"i32.ctz":    {0x68, 1, ImmNone},
	"i32.popcnt": {0x69, 1, ImmNone},
	"i32.add":    {0x6A, 2, ImmNone},
	"i32.sub":    {0x6B, 2, ImmNone},
	"i32.mul":    {0x6C, 2, ImmNone},
	"i32.div_s":  {0x6D, 2, ImmNone},
	"i32.div_u":  {0x6E, 2, ImmNone},
	"i32.rem_s":  {0x6F, 2, ImmNone},
	"i32.rem_u":  {0x70, 2, ImmNone},
	"i32.and":    {0x71, 2, ImmNone},
	"i32.or":     {0x72, 2, ImmNone},
	"i32.xor":    {0x73, 2, ImmNone},
	"i32.shl":    {0x74, 2, ImmNone},
	"i32.shr_s":  {0x75, 2, ImmNone},
	"i32.shr_u":  {0x76, 2, ImmNone},
	"i32.rotl":   {0x77, 2, ImmNone},
	"i32.rotr":   {0x78, 2, ImmNone},
}
