// Package markup converts the attribute values of workflow markup
// documents to and from typed Go values.
//
// A workflow document describes activities and their properties. The
// document structure itself (elements, nesting, which properties of
// which activity get visited) belongs to the caller. This package
// handles a single attribute value at a time: given the declared Go
// type of a property and the raw attribute text, it produces a typed
// value or a [*SerializationError].
//
// Attribute text is either a plain literal, converted with the
// declared type's string converter:
//
//	Location="10, 20"
//	Enabled="true"
//
// or a compact value, a brace-delimited markup extension reference:
//
//	Location="{wf:Point X=10, Y=20}"
//	Target="{x:Null}"
//	ValueType="{x:Type sys:String}"
//	Parent="{wf:ActivityBind sequence1, Path=Children}"
//
// Compact values name a type registered in the pipeline's
// [TypeRegistry], whose properties are assigned from positional and
// Name=Value arguments, or an extension that a caller-supplied
// [Resolver] materializes from document context. Arguments may be
// compact values themselves, and are converted recursively.
//
// The conversion pipeline is a [Helpers] graph, built once with
// [NewHelpers] and then safe for concurrent use by any number of
// property conversions. Types that need their own attribute encoding
// provide a [Serializer]; [Point], [Size] and
// [SynchronizationHandles] are built in.
//
// Conversion failures are reported, never panicked: a property either
// converts completely or fails with one error, which a document
// walker can record in an [ErrorList] and decide whether to keep
// going. Panics raised by user-supplied converters and resolvers are
// not recovered, and propagate to the caller unchanged.
package markup
