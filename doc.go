/*
Command mocha draws the figures of the galaxy property inference mock
challenge.

Contents

  Program overview
  Command line usage
  Configuring file locations
  File formats
  Algorithm outline


Program overview

The mock challenge compares galaxy properties (stellar mass, star formation
rate) inferred by SED fitting of simulated spectra and photometry with the
true properties of the simulated galaxies.  The fitting itself is done
elsewhere.  Its output is one MCMC chain file per galaxy.  Mocha reads these
chains together with the simulation truth catalog and draws figures.

The central quantity is the population bias of a property: for galaxies
selected by some observable, say r magnitude, the offsets of inferred from
true values are modeled as a Gaussian of mean mu and scatter sigma.  Mu and
sigma are found by maximizing a hierarchical likelihood over the per-galaxy
chains rather than by averaging point estimates, so galaxies with poorly
constrained fits count for less.

Sample run:

  mocha mock -p challenge
  mocha eta-delta -p challenge -o figs

The first command generates a synthetic challenge in directory challenge
with a known population bias.  The second prints the names of the files it
writes:

  figs/eta_delta.lgal.ifsps.vanilla.noise_bgs0_legacy.png
  figs/eta_delta.lgal.ifsps.vanilla.noise_bgs0_legacy.pdf
  figs/eta_delta.lgal.ifsps.vanilla.noise_bgs0_legacy.yaml

The yaml file lists the fitted mu and sigma of each bin.


Command line usage

  Usage: mocha [options] <figure>

  Figures:
       eta-delta             bias versus r magnitude, g - r and r - z
       photo-vs-specphoto    bias from photometry alone and with spectra
       dust                  bias with simple and complex dust models
       inferred              inferred versus true properties
       posterior             corner plot of one galaxy's chain
       footprint             survey footprints and redshift distributions
       offsets               pooled offsets, profile fit and population fit
       mock                  generate a synthetic challenge
       version               display version and copyright

  Options:
       -c <config-file>
       -p <data directory>
       -o <figure directory>
       -v                    debug logging
       --nopdf               write PNG only
       --obs <obs>           spec, photo or specphoto, for inferred
                             and posterior
       --igal <i>            galaxy of the posterior figure

Warnings, such as galaxies skipped for missing chain files, are logged to
stderr.


Configuring file locations

All input is found under the data directory, by default the current
directory, or as given with -p.  The figure directory defaults to figs.

	File                                                  Content
	mocha.config                                          optional config
	<sim>.truth.hdf5                                      truth catalog
	bestfit/<fitter>/<sim>.<obs>.noise_<noise>.<model>.<i>.hdf5
	                                                      chain of galaxy i
	surveys/bgs.hdf5, surveys/sdss.fits, surveys/gama.fits
	                                                      footprint surveys
	cache/                                                offset cache

A configuration file is required to be present if -c is used.


File formats

Chain files are HDF5 with datasets theta_names, the parameter names as
fixed length strings, and
mcmc_chain, samples by parameter.  Optional datasets prior_range and the
percentile summaries theta_2sig_minus, theta_1sig_minus, theta_med,
theta_1sig_plus and theta_2sig_plus are used when present.  Offsets are
taken for parameters logmstar and logsfr.100myr.  The inferred figure also
draws logsfr.1gyr, logz.mw and tage.mw where chains carry them.

The truth catalog has one dataset per column: logM_total, sfr_100myr,
sfr_1gyr, Z_MW, t_age_MW, and true fluxes flux_g_true, flux_r_true,
flux_z_true in nanomaggies.  TNG masses and rates are converted from h
scaled units with h = 0.6774.  Metallicity is compared as log10 Z_MW.
Truth columns other than logM_total and sfr_100myr are optional; panels
needing a missing column are skipped with a warning.

Survey catalogs are HDF5 or FITS binary tables with ra, dec and redshift
columns.  FITS column names match without regard to case.

mocha.config is a text file.  Empty lines and lines beginning with # are
ignored.  Other lines contain a keyword or a setting.

Allowable keywords:

   pdf
   nopdf
   cache
   nocache
   repeatable
   random

Keywords pdf and nopdf determine if figures are also written as PDF.
Cache and nocache determine if assembled offsets are kept in the cache
directory.  Repeatable uses a fixed seed for the mock command, random
seeds it from the clock.

Settings have the form key=value, white space optional:

   data        data directory
   figs        figure directory
   sim         simulation, lgal or tng
   fitter      fitting method, the bestfit subdirectory
   model       model of the chains
   dustmodel   model compared with model by the dust figure
   noise       noise of spectrophotometric chains
   photonoise  noise of photometric chains
   specnoise   noise of spectroscopic chains
   ngal        galaxies 0..ngal-1 are read
   thin        every thin-th sample of a chain is used
   nsample     samples per chain written by mock
   nbin        histogram bins of the offsets figure
   floor       per-galaxy likelihood floor
   sigmamin    lower bound of the fitted scatter
   start       mu, sigma starting point
   method      lbfgs or neldermead
   maxiter     optimizer iterations
   workers     concurrent bin fits
   seed        mock seed

Example:

  # mini mock challenge
  nopdf
  sim=lgal
  ngal=97
  method=neldermead


Algorithm outline

1.  For each galaxy with a chain file, every thin-th sample of the property
is taken and the true value subtracted.  Chains with NaN offsets are
skipped.

2.  Galaxies are binned by an observable, bin i holding values in
(e[i], e[i+1]].  Empty bins are skipped.

3.  In each bin the population likelihood of (mu, sigma) is the sum over
galaxies of the log of the mean, over that galaxy's offset samples, of the
Gaussian density N(offset; mu, sigma) divided by the prior density.  The
mean is clipped below at the floor, 1e-8 by default, so no galaxy
contributes minus infinity.  A chain containing NaN contributes the floor.

4.  Mu and sigma maximizing the likelihood are found by L-BFGS or
Nelder-Mead, with sigma held above its lower bound.  Bins are fit
concurrently.  If the likelihood is undefined at any point the program
logs each galaxy's contribution and stops.

-------------
Public domain.
*/
package main
