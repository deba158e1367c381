package projgen

// pbxprojTemplate is the template for the project.pbxproj descriptor. It
// describes a single framework target whose name, sources, and headers
// are substituted in. The external toolchain is the only consumer: we
// never parse this file back.
const pbxprojTemplate = `// !$*UTF8*$!
{
	archiveVersion = 1;
	classes = {
	};
	objectVersion = 56;
	objects = {

/* Begin PBXBuildFile section */
{{ range .Sources }}		{{ .BuildID }} /* {{ .Name }} in Sources */ = {isa = PBXBuildFile; fileRef = {{ .RefID }} /* {{ .Name }} */; };
{{ end }}{{ range .Headers }}		{{ .BuildID }} /* {{ .Name }} in Headers */ = {isa = PBXBuildFile; fileRef = {{ .RefID }} /* {{ .Name }} */; settings = {ATTRIBUTES = (Public, ); }; };
{{ end }}/* End PBXBuildFile section */

/* Begin PBXFileReference section */
		D0FFBA11BA5EBAB1EC0DDFA1 /* {{ .TargetName }}.framework */ = {isa = PBXFileReference; explicitFileType = wrapper.framework; includeInIndex = 0; path = {{ .TargetName }}.framework; sourceTree = BUILT_PRODUCTS_DIR; };
{{ range .Sources }}		{{ .RefID }} /* {{ .Name }} */ = {isa = PBXFileReference; lastKnownFileType = sourcecode.cpp.objcpp; name = {{ .Name }}; path = {{ .Path }}; sourceTree = "<group>"; };
{{ end }}{{ range .Headers }}		{{ .RefID }} /* {{ .Name }} */ = {isa = PBXFileReference; lastKnownFileType = sourcecode.c.h; name = {{ .Name }}; path = {{ .Path }}; sourceTree = "<group>"; };
{{ end }}/* End PBXFileReference section */

/* Begin PBXGroup section */
		A100000000000000000000A1 = {
			isa = PBXGroup;
			children = (
{{ range .Sources }}				{{ .RefID }} /* {{ .Name }} */,
{{ end }}{{ range .Headers }}				{{ .RefID }} /* {{ .Name }} */,
{{ end }}				D0FFBA11BA5EBAB1EC0DDFA1 /* {{ .TargetName }}.framework */,
			);
			sourceTree = "<group>";
		};
/* End PBXGroup section */

/* Begin PBXHeadersBuildPhase section */
		B100000000000000000000B1 /* Headers */ = {
			isa = PBXHeadersBuildPhase;
			buildActionMask = 2147483647;
			files = (
{{ range .Headers }}				{{ .BuildID }} /* {{ .Name }} in Headers */,
{{ end }}			);
			runOnlyForDeploymentPostprocessing = 0;
		};
/* End PBXHeadersBuildPhase section */

/* Begin PBXNativeTarget section */
		C100000000000000000000C1 /* {{ .TargetName }} */ = {
			isa = PBXNativeTarget;
			buildConfigurationList = E100000000000000000000E1 /* Build configuration list for PBXNativeTarget "{{ .TargetName }}" */;
			buildPhases = (
				B100000000000000000000B1 /* Headers */,
				B200000000000000000000B2 /* Sources */,
			);
			buildRules = (
			);
			dependencies = (
			);
			name = {{ .TargetName }};
			productName = {{ .TargetName }};
			productReference = D0FFBA11BA5EBAB1EC0DDFA1 /* {{ .TargetName }}.framework */;
			productType = "com.apple.product-type.framework";
		};
/* End PBXNativeTarget section */

/* Begin PBXProject section */
		F100000000000000000000F1 /* Project object */ = {
			isa = PBXProject;
			attributes = {
				BuildIndependentTargetsInParallel = 1;
				LastUpgradeCheck = 1430;
			};
			buildConfigurationList = E200000000000000000000E2 /* Build configuration list for PBXProject "{{ .TargetName }}" */;
			compatibilityVersion = "Xcode 14.0";
			developmentRegion = en;
			hasScannedForEncodings = 0;
			knownRegions = (
				en,
				Base,
			);
			mainGroup = A100000000000000000000A1;
			productRefGroup = A100000000000000000000A1;
			projectDirPath = "";
			projectRoot = "";
			targets = (
				C100000000000000000000C1 /* {{ .TargetName }} */,
			);
		};
/* End PBXProject section */

/* Begin PBXSourcesBuildPhase section */
		B200000000000000000000B2 /* Sources */ = {
			isa = PBXSourcesBuildPhase;
			buildActionMask = 2147483647;
			files = (
{{ range .Sources }}				{{ .BuildID }} /* {{ .Name }} in Sources */,
{{ end }}			);
			runOnlyForDeploymentPostprocessing = 0;
		};
/* End PBXSourcesBuildPhase section */

/* Begin XCBuildConfiguration section */
		E300000000000000000000E3 /* Release */ = {
			isa = XCBuildConfiguration;
			buildSettings = {
				BUILD_LIBRARY_FOR_DISTRIBUTION = YES;
				CODE_SIGNING_ALLOWED = NO;
				DEFINES_MODULE = YES;
				IPHONEOS_DEPLOYMENT_TARGET = 12.0;
				PRODUCT_BUNDLE_IDENTIFIER = "com.mediapipe.tasks.{{ .TargetName }}";
				PRODUCT_NAME = "$(TARGET_NAME)";
				SDKROOT = iphoneos;
				SKIP_INSTALL = NO;
				TARGETED_DEVICE_FAMILY = "1,2";
			};
			name = Release;
		};
		E400000000000000000000E4 /* Release */ = {
			isa = XCBuildConfiguration;
			buildSettings = {
				IPHONEOS_DEPLOYMENT_TARGET = 12.0;
				SDKROOT = iphoneos;
			};
			name = Release;
		};
/* End XCBuildConfiguration section */

/* Begin XCConfigurationList section */
		E100000000000000000000E1 /* Build configuration list for PBXNativeTarget "{{ .TargetName }}" */ = {
			isa = XCConfigurationList;
			buildConfigurations = (
				E300000000000000000000E3 /* Release */,
			);
			defaultConfigurationIsVisible = 0;
			defaultConfigurationName = Release;
		};
		E200000000000000000000E2 /* Build configuration list for PBXProject "{{ .TargetName }}" */ = {
			isa = XCConfigurationList;
			buildConfigurations = (
				E400000000000000000000E4 /* Release */,
			);
			defaultConfigurationIsVisible = 0;
			defaultConfigurationName = Release;
		};
/* End XCConfigurationList section */
	};
	rootObject = F100000000000000000000F1 /* Project object */;
}
`

// xcschemeTemplate is the template for the shared run/test/profile scheme.
const xcschemeTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<Scheme
   LastUpgradeVersion = "1430"
   version = "1.3">
   <BuildAction
      parallelizeBuildables = "YES"
      buildImplicitDependencies = "YES">
      <BuildActionEntries>
         <BuildActionEntry
            buildForTesting = "YES"
            buildForRunning = "YES"
            buildForProfiling = "YES"
            buildForArchiving = "YES"
            buildForAnalyzing = "YES">
            <BuildableReference
               BuildableIdentifier = "primary"
               BlueprintIdentifier = "C100000000000000000000C1"
               BuildableName = "{{ .TargetName }}.framework"
               BlueprintName = "{{ .TargetName }}"
               ReferencedContainer = "container:{{ .TargetName }}.xcodeproj">
            </BuildableReference>
         </BuildActionEntry>
      </BuildActionEntries>
   </BuildAction>
   <TestAction
      buildConfiguration = "Release"
      selectedDebuggerIdentifier = "Xcode.DebuggerFoundation.Debugger.LLDB"
      selectedLauncherIdentifier = "Xcode.DebuggerFoundation.Launcher.LLDB"
      shouldUseLaunchSchemeArgsEnv = "YES">
      <Testables>
      </Testables>
   </TestAction>
   <LaunchAction
      buildConfiguration = "Release"
      selectedDebuggerIdentifier = "Xcode.DebuggerFoundation.Debugger.LLDB"
      selectedLauncherIdentifier = "Xcode.DebuggerFoundation.Launcher.LLDB"
      launchStyle = "0"
      useCustomWorkingDirectory = "NO"
      ignoresPersistentStateOnLaunch = "NO"
      debugDocumentVersioning = "YES"
      debugServiceExtension = "internal"
      allowLocationSimulation = "YES">
   </LaunchAction>
   <ProfileAction
      buildConfiguration = "Release"
      shouldUseLaunchSchemeArgsEnv = "YES"
      savedToolIdentifier = ""
      useCustomWorkingDirectory = "NO"
      debugDocumentVersioning = "YES">
   </ProfileAction>
   <ArchiveAction
      buildConfiguration = "Release"
      revealArchiveInOrganizer = "YES">
   </ArchiveAction>
</Scheme>
`
