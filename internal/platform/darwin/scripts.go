package darwin

// listRunningScript prints every running application as a JSON array.
// Applications without a bundle report an empty path.
const listRunningScript = `ObjC.import('AppKit');
var apps = $.NSWorkspace.sharedWorkspace.runningApplications;
var out = [];
for (var i = 0; i < apps.count; i++) {
  var a = apps.objectAtIndex(i);
  var url = a.bundleURL;
  var name = a.localizedName;
  var id = a.bundleIdentifier;
  out.push({
    name: name.isNil() ? '' : ObjC.unwrap(name),
    path: url.isNil() ? '' : ObjC.unwrap(url.path),
    bundleId: id.isNil() ? '' : ObjC.unwrap(id),
    pid: a.processIdentifier
  });
}
JSON.stringify(out);`

// resolveIdentifierScript prints the bundle identifier for argv[0], or an
// empty line when the path is not a bundle or has no identifier.
const resolveIdentifierScript = `ObjC.import('Foundation');
function run(argv) {
  var b = $.NSBundle.bundleWithPath(argv[0]);
  if (b.isNil()) return '';
  var id = b.bundleIdentifier;
  return id.isNil() ? '' : ObjC.unwrap(id);
}`

// terminateScript asks the application with pid argv[1] to quit; argv[0] is
// "terminate" or "force". It prints gone, sent, or refused.
const terminateScript = `ObjC.import('AppKit');
function run(argv) {
  var app = $.NSRunningApplication.runningApplicationWithProcessIdentifier(parseInt(argv[1], 10));
  if (app.isNil()) return 'gone';
  var ok = argv[0] === 'force' ? app.forceTerminate : app.terminate;
  return ok ? 'sent' : 'refused';
}`
